package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"

	"mcsched"
)

func printReport(w io.Writer, res *mcsched.Result, stats *mcsched.Stats) {
	a := res.Analysis
	color.Fprintf(w, "<cyan>task set</>      %v\n", res.TaskSetID)
	color.Fprintf(w, "<cyan>policy</>        %v (vdf %.3f)\n", a.Policy, a.VDF)
	color.Fprintf(w, "<cyan>utilization</>   U11 %.3f  U12 %.3f  U21 %.3f  U22 %.3f  speed %.2f\n", a.U11, a.U12, a.U21, a.U22, a.Speed)
	feasible := color.Green.Sprint("feasible")
	if !a.Feasible {
		feasible = color.Yellow.Sprint("not shown feasible")
	}
	fmt.Fprintf(w, "%v %v\n", color.Cyan.Sprint("analysis     "), feasible)

	fmt.Fprintln(w)
	for _, e := range res.Schedule.Entries() {
		label := e.Label()
		if e.Idle() {
			label = color.Gray.Sprint(label)
		}
		fmt.Fprintf(w, "  %8.3f  %v\n", float64(e.At), label)
	}
	fmt.Fprintln(w)

	if mc := res.ModeChange; mc != nil {
		color.Fprintf(w, "<yellow>mode change</>   at %v (%v), evicted %v\n", float64(mc.At), mc.Reason, strings.Join(mc.Evicted, " "))
	}
	if stats != nil {
		fmt.Fprintf(w, "%v LO %v, HI %v, ignored %v\n", color.Cyan.Sprint("jobs         "), stats.Jobs.LO, stats.Jobs.HI, stats.Jobs.Ignored)
		fmt.Fprintf(w, "%v %v\n", color.Cyan.Sprint("preemptions  "), stats.Preemptions)
	}

	switch res.Outcome {
	case mcsched.SUCCESS:
		fmt.Fprintln(w, color.Style{color.FgGreen, color.OpBold}.Sprintf("success after %v time units", res.Duration))
	case mcsched.FAIL:
		fmt.Fprintln(w, color.Error.Sprintf("fail at %v: %v", float64(res.At), strings.Join(res.FailedIDs(), " ")))
	}
}
