package main

import "github.com/Faqahat/cloudup/cmd"

func main() {
	cmd.Execute()
}
