package cmd

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/adapters/modelcli"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/config"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/store"
)

// diskWarnPercent is the usage level above which the checkpoint
// directory's filesystem is flagged.
const diskWarnPercent = 90

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration and system dependencies",
	Long:  "Verify that the model CLI, configuration, and system resources are ready.",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	fmt.Println("Checking configuration...")
	fmt.Println()

	cfg, issues := checkConfig()
	if len(issues) > 0 {
		for _, issue := range issues {
			fmt.Printf("  ✗ %s\n", issue)
		}
		fmt.Println()
		fmt.Println("Configuration errors must be fixed before starting a session.")
		fmt.Println("Edit .tutor.yaml to fix the issues above.")
		return fmt.Errorf("configuration check failed")
	}
	fmt.Println("  ✓ Configuration valid")
	fmt.Println()

	fmt.Println("Checking checkpoint storage...")
	fmt.Println()

	if err := checkStorage(cfg); err != nil {
		fmt.Printf("  ✗ %s backend (%v)\n", cfg.State.Backend, err)
		return fmt.Errorf("storage check failed")
	}
	fmt.Printf("  ✓ %s backend writable\n", cfg.State.Backend)
	fmt.Println()

	fmt.Println("Checking model CLI...")
	fmt.Println()

	client := modelcli.New(modelcli.Config{
		Name:    cfg.Model.Name,
		Path:    cfg.Model.Path,
		Model:   cfg.Model.Model,
		Timeout: cfg.Model.Timeout,
	}, logging.NewNop())
	modelOK := true
	if err := client.Ping(cmd.Context()); err != nil {
		fmt.Printf("  ✗ %s (%v)\n", cfg.Model.Name, err)
		modelOK = false
	} else {
		fmt.Printf("  ✓ %s\n", cfg.Model.Name)
	}
	fmt.Println()

	fmt.Println("Checking system resources...")
	fmt.Println()
	printSystemChecks()
	fmt.Println()

	if !modelOK {
		fmt.Println("The model CLI is unavailable; sessions cannot generate content.")
		return fmt.Errorf("dependency check failed")
	}
	fmt.Println("All checks passed")
	return nil
}

// checkConfig loads the configuration and collects validation issues.
func checkConfig() (*config.Config, []string) {
	var issues []string

	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, append(issues, fmt.Sprintf("Cannot load config: %v", err))
	}

	if err := config.Validate(cfg); err != nil {
		if verrs, ok := err.(config.ValidationErrors); ok {
			for _, verr := range verrs {
				issues = append(issues, verr.Error())
			}
		} else {
			issues = append(issues, err.Error())
		}
	}
	return cfg, issues
}

// checkStorage opens the configured backend and closes it again, which
// creates the data directory and verifies it is writable.
func checkStorage(cfg *config.Config) error {
	st, err := store.New(store.Config{
		Backend: cfg.State.Backend,
		Dir:     cfg.State.Dir,
		DBPath:  cfg.State.DBPath,
	}, logging.NewNop())
	if err != nil {
		return err
	}
	return st.Close()
}

// printSystemChecks reports memory, CPU, and disk headroom. These are
// informational: a loaded machine still works, just slower.
func printSystemChecks() {
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Printf("  ✓ memory: %.1f GB free of %.1f GB (%.0f%% used)\n",
			float64(vm.Available)/1024/1024/1024,
			float64(vm.Total)/1024/1024/1024,
			vm.UsedPercent)
	} else {
		fmt.Printf("  ○ memory: unavailable (%v)\n", err)
	}

	if counts, err := cpu.Counts(true); err == nil {
		fmt.Printf("  ✓ cpu: %d logical cores\n", counts)
	} else {
		fmt.Printf("  ○ cpu: unavailable (%v)\n", err)
	}

	if usage, err := disk.Usage("."); err == nil {
		icon := "✓"
		if usage.UsedPercent > diskWarnPercent {
			icon = "⚠"
		}
		fmt.Printf("  %s disk: %.1f GB free (%.0f%% used)\n", icon,
			float64(usage.Free)/1024/1024/1024, usage.UsedPercent)
	} else {
		fmt.Printf("  ○ disk: unavailable (%v)\n", err)
	}
}
