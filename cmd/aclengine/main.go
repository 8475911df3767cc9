// Command aclengine loads a compiled ACL rule set and serves as a local
// SOCKS5 TCP/UDP forwarder that routes each connection according to the
// rules.
package main

import "github.com/apernet/aclengine/internal/cmd"

func main() {
	cmd.Execute()
}
