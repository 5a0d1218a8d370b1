// Command visx builds, inspects, and verifies VISX package archives.
package main

func main() {
	Execute()
}
