package main

import "pdf_optimizer/cmd"

func main() {
	cmd.Execute()
}
