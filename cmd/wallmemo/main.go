// Command wallmemo renders a list of notes onto the desktop wallpaper.
package main

func main() {
	Execute()
}
