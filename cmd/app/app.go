package main

import "github.com/DRSN-tech/fashion-rag/internal/app"

func main() {
	app.Run()
}
