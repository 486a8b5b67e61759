package main

import (
	"imdb-pump/cmd"
)

func main() {
	cmd.Execute()
}
