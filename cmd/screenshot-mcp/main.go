// Command screenshot-mcp serves screenshot coordinate tools over MCP.
package main

func main() {
	Execute()
}
