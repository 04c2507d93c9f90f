// Command retrograde reports which celestial bodies are in apparent
// retrograde motion at given Unix timestamps.
package main

import "github.com/papapumpkin/retrograde/cmd"

func main() {
	cmd.Execute()
}
