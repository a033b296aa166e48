package main

import "growthcoach/cmd/coach/root"

func main() {
	root.Execute()
}
