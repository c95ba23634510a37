package main

import "ttrpgconv/cmd/ttrpgconv"

func main() {
	ttrpgconv.Execute()
}
