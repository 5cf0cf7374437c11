package main

import "github.com/billbatista/acasinha-splits/cmd"

func main() {
	cmd.Execute()
}
