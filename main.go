package main

import "suggestbox/cmd"

func main() {
	cmd.Execute()
}
