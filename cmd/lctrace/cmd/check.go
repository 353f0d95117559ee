package cmd

import (
	"errors"
	"fmt"

	"github.com/go-drift/lifecycle/cmd/lctrace/internal/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate scenario files",
		Long: `Parse and validate one or more scenario files without replaying them.

Every problem in a file is reported, not just the first.`,
		Usage: "lctrace check <scenario>...",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one scenario file is required\n\nUsage: lctrace check <scenario>...")
	}

	var errs []error
	for _, path := range args {
		res, err := config.Resolve(path)
		if err != nil {
			fmt.Fprintf(stdout, "FAIL  %s\n%v\n", path, err)
			errs = append(errs, fmt.Errorf("%s: invalid scenario", path))
			continue
		}
		s := res.Scenario
		fmt.Fprintf(stdout, "ok    %s  %s (%d nodes, %d steps)\n", path, s.Name, len(s.Nodes), len(s.Steps))
	}
	return errors.Join(errs...)
}
