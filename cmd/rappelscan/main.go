// Command rappelscan checks products against the French consumer recall feed
// from the terminal, and serves the HTTP API and MCP tools.
package main

func main() {
	Execute()
}
