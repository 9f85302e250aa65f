// main.go - Headless driver for the kernel simulator core

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/intuitionamiga/kernelsim"
)

func main() {
	schedulerTag := flag.String("scheduler", "priority", "scheduler to use: priority|round-robin|fcfs")
	timeSlice := flag.Int("time-slice", 10, "round-robin time slice, in ticks")
	debug := flag.Bool("debug", false, "print per-tick scheduler state")
	noSampleTasks := flag.Bool("no-sample-tasks", false, "skip creating the built-in demo tasks")
	ticks := flag.Int("ticks", 100, "number of ticks to run before exiting")
	flag.Parse()

	sim := kernelsim.NewSimulator(kernelsim.DefaultMemorySize)

	cfg := kernelsim.DefaultSchedulerConfig(kernelsim.DefaultMemorySize)
	cfg.TimeSlice = *timeSlice

	sched, err := kernelsim.NewScheduler(*schedulerTag, sim.Registers(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kernelsim: %v\n", err)
		os.Exit(1)
	}
	sim.SetScheduler(sched)

	if !*noSampleTasks {
		if _, err := sched.CreateTask("idle", kernelsim.MaxPriority, 0, kernelsim.DefaultStackSize); err != nil {
			fmt.Fprintf(os.Stderr, "kernelsim: create idle task: %v\n", err)
			os.Exit(1)
		}
		if _, err := sched.CreateTask("worker", 10, 0, kernelsim.DefaultStackSize); err != nil {
			fmt.Fprintf(os.Stderr, "kernelsim: create worker task: %v\n", err)
			os.Exit(1)
		}
	}

	clock := kernelsim.NewClock(sim, 0)
	for i := 0; i < *ticks; i++ {
		clock.Step(1)
		if *debug {
			if cur, ok := sched.Current(); ok {
				fmt.Printf("tick %d: running task %d (%s)\n", sim.TickCount(), cur.ID, cur.Name)
			} else {
				fmt.Printf("tick %d: idle\n", sim.TickCount())
			}
		}
	}

	m := sched.Metrics()
	fmt.Printf("scheduler=%s ticks=%d context_switches=%d preemptions=%d\n",
		sched.SchedulerType(), *ticks, m.ContextSwitches, m.Preemptions)
}
