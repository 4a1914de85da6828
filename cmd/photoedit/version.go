package main

import "fmt"

type versionCmd struct{ cmdBase }

func (v *versionCmd) Run() error {
	line := fmt.Sprintf("%s version %s", v.r.program, version)
	if commit != "" {
		line += " (" + commit
		if date != "" {
			line += ", " + date
		}
		line += ")"
	}
	fmt.Println(line)
	return nil
}
