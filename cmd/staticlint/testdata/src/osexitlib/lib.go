package osexitlib

import "os"

func main() {
	os.Exit(1)
}
