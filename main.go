package main

import "github.com/ValentinKolb/jKV/cmd"

func main() {
	cmd.Execute()
}
