// Command gantt turns CPU scheduling traces into Gantt charts.
package main

import "github.com/sarchlab/gantt/cmd"

func main() {
	cmd.Execute()
}
