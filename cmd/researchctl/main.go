// Command researchctl вызывает агрегатор по HTTP или gRPC и
// запускает локальную демонстрацию на тестовых поставщиках.
package main

import (
	"log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("researchctl: %v", err)
	}
}
