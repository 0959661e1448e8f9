// cmd/tcmctl/commands.go
package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/tamzrod/tcm-controller/internal/tcm"
	"github.com/tamzrod/tcm-controller/internal/transport"
)

type getTargetCmd struct {
	opts *Options
}

func (c *getTargetCmd) Execute(args []string) error {
	e, err := setup(c.opts)
	if err != nil {
		return err
	}
	defer e.close()

	t, err := e.ctl.GetTargetTemperature()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tcm.FormatTemperature(t))
	return nil
}

type setTargetCmd struct {
	opts *Options
	Args struct {
		Temperature float64 `positional-arg-name:"temperature" required:"yes"`
	} `positional-args:"yes"`
	Save bool `long:"save" description:"persist the new setpoint"`
}

func (c *setTargetCmd) Execute(args []string) error {
	e, err := setup(c.opts)
	if err != nil {
		return err
	}
	defer e.close()

	if err := e.ctl.SetTargetTemperature(c.Args.Temperature); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "target %s\n", tcm.FormatTemperature(e.ctl.TargetTemperature()))

	if !c.Save {
		return nil
	}
	resp, err := e.ctl.SaveTargetTemperature()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "saved: %s\n", resp)
	return nil
}

type saveTargetCmd struct {
	opts *Options
}

func (c *saveTargetCmd) Execute(args []string) error {
	e, err := setup(c.opts)
	if err != nil {
		return err
	}
	defer e.close()

	resp, err := e.ctl.SaveTargetTemperature()
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "saved: %s\n", resp)
	return nil
}

type actualCmd struct {
	opts *Options
}

func (c *actualCmd) Execute(args []string) error {
	e, err := setup(c.opts)
	if err != nil {
		return err
	}
	defer e.close()

	t, err := e.ctl.GetActualTemperature()
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, tcm.FormatTemperature(t))
	return nil
}

type portsCmd struct{}

func (c *portsCmd) Execute(args []string) error {
	ports, err := transport.ListPorts()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PORT\tSERIAL\tVID:PID\tPRODUCT")
	for _, p := range ports {
		fmt.Fprintf(w, "%s\t%s\t%s:%s\t%s\n", p.Name, p.SerialNumber, p.VID, p.PID, p.Product)
	}
	return w.Flush()
}
