package main

import "github.com/NarendraaP/Epistemic-Engine/cmd"

func main() {
	cmd.Execute()
}
