package main

import "os"

func helper() {
	os.Exit(2)
}

func main() {
	defer helper()
	go func() {
		os.Exit(3)
	}()
	os.Exit(1) // want "вызов os.Exit в функции main запрещён"
}
