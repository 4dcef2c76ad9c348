package main

import "spectrumdata.tech/spectrum/cmd"

func main() {
	cmd.Execute()
}
