// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/navwar/bisync/pkg/config"
	"github.com/navwar/bisync/pkg/fs"
	"github.com/navwar/bisync/pkg/lfs"
	"github.com/navwar/bisync/pkg/log"
	"github.com/navwar/bisync/pkg/state"
	"github.com/navwar/bisync/pkg/ts"
)

const (
	BisyncVersion = "0.0.1"
)

// set by the linker
var (
	gitBranch string
	gitCommit string
)

// Debug Flag
const (
	flagDebug = "debug"
)

// List Flags
const (
	flagAll                   = "all"
	flagTimeLayout            = "time-layout"
	flagTimeZone              = "time-zone"
	flagHumanReadableFileSize = "human-readable-file-size"
)

// List Defaults
const (
	DefaultFormat = log.FormatText
)

// Sync Flags
const (
	flagConfig       = "config"
	flagSimulate     = "simulate"
	flagSkipHidden   = "skip-hidden"
	flagUseChecksum  = "use-checksum"
	flagLastSyncFile = "last-sync-file"
)

// Log Flags
const (
	flagLogPath   = "log-path"
	flagLogFormat = "log-format"
	flagLogPerm   = "log-perm"
)

func initDebugFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagDebug, "d", false, "log every action taken (overrides the settings file)")
}

func initListFlags(flag *pflag.FlagSet) {
	flag.BoolP(flagAll, "a", false, "Include directory entries whose names begin with a dot (‘.’).")
	flag.StringP(flagTimeLayout, "t", "Default", "the layout to use for file timestamps.  Use go layout format, or the name of a layout.  Use bisync layouts to show all named layouts.")
	flag.StringP(flagTimeZone, "z", "Local", "the timezone to use for file timestamps")
	flag.Bool(flagHumanReadableFileSize, false, "display file sizes in human-readable format")
}

func initSyncFlags(flag *pflag.FlagSet) {
	flag.StringP(flagConfig, "c", "", "path to the settings file (yaml, toml, or json)")
	flag.BoolP(flagSimulate, "s", false, "log the actions that would be taken without changing any files (overrides the settings file)")
	flag.Bool(flagSkipHidden, true, "skip files and directories whose names begin with a dot (overrides the settings file)")
	flag.Bool(flagUseChecksum, false, "only overwrite files whose contents differ (overrides the settings file)")
}

func initLastSyncFlags(flag *pflag.FlagSet) {
	flag.String(flagLastSyncFile, state.DefaultLastSyncFile, "path to the file holding the time of the last synchronization")
}

func initLogFlags(flag *pflag.FlagSet) {
	flag.String(flagLogPath, "-", "path to the log output.  Defaults to the operating system's stdout device.")
	flag.String(flagLogPerm, "0600", "file permissions for log output file as unix file mode.")
	flag.StringP(flagLogFormat, "f", DefaultFormat, "output log format.  Either jsonl or text.")
}

func initListCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initListFlags(flag)
	initLogFlags(flag)
}

func initSyncCommandFlags(flag *pflag.FlagSet) {
	initDebugFlags(flag)
	initSyncFlags(flag)
	initLastSyncFlags(flag)
	initLogFlags(flag)
}

func initLastSyncCommandFlags(flag *pflag.FlagSet) {
	initLastSyncFlags(flag)
	flag.StringP(flagTimeLayout, "t", "Full", "the layout to use for the timestamp.  Use go layout format, or the name of a layout.")
	flag.StringP(flagTimeZone, "z", "Local", "the timezone to use for the timestamp")
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

func checkLogConfig(v *viper.Viper, args []string) error {
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	switch logFormat := v.GetString(flagLogFormat); logFormat {
	case log.FormatJSONL, log.FormatText:
	default:
		return fmt.Errorf("unknown log format %q, expecting %q or %q", logFormat, log.FormatJSONL, log.FormatText)
	}
	return nil
}

func checkListConfig(v *viper.Viper, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("expecting at most 1 positional argument for path, but found %d arguments", len(args))
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

func checkSyncConfig(v *viper.Viper, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return fmt.Errorf("expecting 0 or 2 positional arguments for path A and path B, but found %d arguments", len(args))
	}
	if len(v.GetString(flagLastSyncFile)) == 0 {
		return fmt.Errorf("last sync file is missing")
	}
	if err := checkLogConfig(v, args); err != nil {
		return fmt.Errorf("error with log configuration: %w", err)
	}
	return nil
}

// checkPaths returns the absolute paths of the synchronization roots
// or an error if they are missing or one contains the other.
func checkPaths(c fs.SyncConfig) (string, string, error) {
	if len(c.PathA) == 0 {
		return "", "", fmt.Errorf("path A is missing")
	}
	if len(c.PathB) == 0 {
		return "", "", fmt.Errorf("path B is missing")
	}
	pathA, err := filepath.Abs(c.PathA)
	if err != nil {
		return "", "", fmt.Errorf("error resolving path A %q: %w", c.PathA, err)
	}
	pathB, err := filepath.Abs(c.PathB)
	if err != nil {
		return "", "", fmt.Errorf("error resolving path B %q: %w", c.PathB, err)
	}
	// check for cycle errors
	if err := lfs.Check(pathA, pathB); err != nil {
		return "", "", err
	}
	return pathA, pathB, nil
}

// initSyncConfig loads the settings file, if any, and applies the flags and positional arguments over it.
// The paths are not checked.
func initSyncConfig(v *viper.Viper, args []string) (fs.SyncConfig, error) {
	settings := config.Default()
	if path := v.GetString(flagConfig); len(path) > 0 {
		s, err := config.Load(path)
		if err != nil {
			return fs.SyncConfig{}, err
		}
		settings = s
	}

	c := settings.SyncConfig()

	// flags and environment variables that are set override the settings file
	if v.IsSet(flagDebug) {
		c.DebugMode = v.GetBool(flagDebug)
	}
	if v.IsSet(flagSimulate) {
		c.Simulate = v.GetBool(flagSimulate)
	}
	if v.IsSet(flagSkipHidden) {
		c.SkipHidden = v.GetBool(flagSkipHidden)
	}
	if v.IsSet(flagUseChecksum) {
		c.UseChecksum = v.GetBool(flagUseChecksum)
	}

	if len(args) == 2 {
		c.PathA = args[0]
		c.PathB = args[1]
	}

	return c, nil
}

func initLogger(path string, perm string, format string) (*log.SimpleLogger, error) {

	if path == os.DevNull {
		return log.NewLogger(io.Discard, format), nil
	}

	if path == "-" {
		return log.NewLogger(os.Stdout, format), nil
	}

	fileMode := os.FileMode(0600)

	if len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %q: %w", path, err)
	}

	return log.NewLogger(f, format), nil
}

func formatHumanReadableFileSize(size int64) string {
	str := ""
	if size <= int64(math.Pow(2, 10)) {
		str = fmt.Sprintf("%dB", size)
	} else if size <= int64(math.Pow(2, 20)) {
		f := float64(size) / math.Pow(2, 10)
		if f > 10 {
			str = fmt.Sprintf("%.0fK", f)
		} else {
			str = fmt.Sprintf("%.1fK", f)
		}
	} else if size <= int64(math.Pow(2, 30)) {
		str = fmt.Sprintf("%.0fM", float64(size)/math.Pow(2, 20))
	} else {
		str = fmt.Sprintf("%.0fG", float64(size)/math.Pow(2, 30))
	}
	return fmt.Sprintf("%5s", str)
}

func main() {
	rootCommand := &cobra.Command{
		Use:                   `bisync [flags]`,
		DisableFlagsInUseLine: true,
		Short: strings.Join([]string{
			"bisync is a simple command line program for synchronizing two directories in both directions.",
			"Files are copied from the side that changed since the last synchronization,",
			"and files deleted on one side since the last synchronization are deleted on the other.",
		}, "\n"),
	}

	layoutsCommand := &cobra.Command{
		Use:                   `layouts`,
		DisableFlagsInUseLine: true,
		Short:                 "show supported timestamp layouts",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(ts.NamedLayouts))
			for name := range ts.NamedLayouts {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%s: %s\n", name, ts.NamedLayouts[name])
			}
			return nil
		},
	}

	listCommand := &cobra.Command{
		Use:                   "list [PATH]",
		DisableFlagsInUseLine: true,
		Short:                 "list",
		Long:                  "list the directory at the path with the effective modification time of each entry",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkListConfig(v, args); errConfig != nil {
				return errConfig
			}

			debug := v.GetBool(flagDebug)
			logFormat := v.GetString(flagLogFormat)

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), logFormat)
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}

			root, err = filepath.Abs(root)
			if err != nil {
				_ = logger.Error("Error resolving path", err, map[string]interface{}{
					"path": root,
				})
				os.Exit(1)
			}

			if debug {
				_ = logger.Log("Listing directory", map[string]interface{}{
					"path": root,
				})
			}

			fileSystem := lfs.NewReadOnlyLocalSystem()

			directoryEntries, err := fileSystem.ReadDir(ctx, root)
			if err != nil {
				_ = logger.Error("Error listing", err, map[string]interface{}{
					"path": root,
				})
				os.Exit(1)
			}

			humanReadableFileSize := v.GetBool(flagHumanReadableFileSize)
			timeLayout := ts.ParseLayout(v.GetString(flagTimeLayout))
			timeZone, err := ts.ParseLocation(v.GetString(flagTimeZone))
			if err != nil {
				return fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagTimeZone), err)
			}

			all := v.GetBool(flagAll)

			switch logFormat {
			case log.FormatText:
				maxFileSize := int64(0)
				for _, de := range directoryEntries {
					if name := de.Name(); all || !strings.HasPrefix(name, ".") {
						if size := de.Size(); size > maxFileSize {
							maxFileSize = size
						}
					}
				}
				spaces := len(strconv.FormatInt(maxFileSize, 10))
				if spaces < len("size") {
					spaces = len("size")
				}
				if humanReadableFileSize {
					spaces = len(formatHumanReadableFileSize(0))
				}
				_, _ = fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
					"type",
					fmt.Sprintf("%"+strconv.Itoa(spaces)+"s", "size"),
					fmt.Sprintf("%"+strconv.Itoa(timeLayout.Width())+"s", "modified"),
					"name",
				)
				for _, de := range directoryEntries {
					name := de.Name()
					if !all && strings.HasPrefix(name, ".") {
						continue
					}
					fileType := "file"
					if de.IsDir() {
						fileType = " dir"
					}
					size := fmt.Sprintf("%"+strconv.Itoa(spaces)+"d", de.Size())
					if humanReadableFileSize {
						size = formatHumanReadableFileSize(de.Size())
					}
					modified := fs.StatEffectiveModTime(ctx, fileSystem, fileSystem.Join(root, name))
					_, _ = fmt.Fprintf(os.Stdout, "%s %s %s %s\n",
						fileType,
						size,
						timeLayout.Format(modified.In(timeZone)),
						name)
				}
			case log.FormatJSONL:
				encoder := json.NewEncoder(os.Stdout)
				for _, de := range directoryEntries {
					name := de.Name()
					if !all && strings.HasPrefix(name, ".") {
						continue
					}
					fi, err := fileSystem.Stat(ctx, fileSystem.Join(root, name))
					if err != nil {
						_ = logger.Error("Error stating directory entry", err, map[string]interface{}{
							"path": fileSystem.Join(root, name),
						})
						os.Exit(1)
					}
					if err := encoder.Encode(fi); err != nil {
						return fmt.Errorf("error encoding directory entry %q: %w", name, err)
					}
				}
			}

			return nil

		},
	}
	initListCommandFlags(listCommand.Flags())

	syncCommand := &cobra.Command{
		Use:                   "sync [PATH_A PATH_B]",
		DisableFlagsInUseLine: true,
		Short:                 "sync",
		Long: strings.Join([]string{
			"synchronize path A and path B in both directions.",
			"The paths are read from the settings file unless given as positional arguments.",
		}, "\n"),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {

			ctx := cmd.Context()

			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			if errConfig := checkSyncConfig(v, args); errConfig != nil {
				return errConfig
			}

			logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm), v.GetString(flagLogFormat))
			if err != nil {
				return fmt.Errorf("error initializing logger: %w", err)
			}

			syncConfig, err := initSyncConfig(v, args)
			if err != nil {
				_ = logger.Error("Error loading settings", err, map[string]interface{}{
					"path": v.GetString(flagConfig),
				})
				os.Exit(1)
			}

			pathA, pathB, err := checkPaths(syncConfig)
			if err != nil {
				_ = logger.Error("Invalid path", err, map[string]interface{}{
					"pathA": syncConfig.PathA,
					"pathB": syncConfig.PathB,
				})
				os.Exit(fs.ExitCodeInvalidPath)
			}
			syncConfig.PathA = pathA
			syncConfig.PathB = pathB

			lastSyncFile := state.NewLocalLastSyncFile(v.GetString(flagLastSyncFile))

			lastSyncTime, err := lastSyncFile.Load()
			if err != nil {
				_ = logger.Warn("Could not read last synchronization time, synchronizing as if never synchronized", map[string]interface{}{
					"path": lastSyncFile.Path(),
					"err":  err.Error(),
				})
			}

			//
			// Synchronize
			//
			synchronizer := fs.NewSynchronizer(&fs.NewSynchronizerInput{
				Config:       syncConfig,
				FileSystem:   lfs.NewLocalFileSystem(),
				LastSyncTime: lastSyncTime,
				Logger:       logger,
			})

			if c := synchronizer.Config(); c.DebugMode {
				_ = logger.Log("Starting synchronization", map[string]interface{}{
					"pathA":       c.PathA,
					"pathB":       c.PathB,
					"lastSync":    synchronizer.LastSyncTime().UTC().Format(time.RFC3339),
					"simulate":    c.Simulate,
					"skipHidden":  c.SkipHidden,
					"useChecksum": c.UseChecksum,
				})
			}

			result, err := synchronizer.Run(ctx)
			if err != nil {
				_ = logger.Error("Error synchronizing", err, map[string]interface{}{
					"pathA":    syncConfig.PathA,
					"pathB":    syncConfig.PathB,
					"exitCode": fs.ExitCode(err),
				})
				os.Exit(fs.ExitCode(err))
			}

			if !syncConfig.Simulate {
				if err := lastSyncFile.Save(time.Now()); err != nil {
					_ = logger.Error("Error saving last synchronization time", err, map[string]interface{}{
						"path": lastSyncFile.Path(),
					})
					os.Exit(1)
				}
			}

			_ = logger.Log("Done synchronizing", result.Fields(), map[string]interface{}{
				"pathA":    syncConfig.PathA,
				"pathB":    syncConfig.PathB,
				"simulate": syncConfig.Simulate,
			})

			return nil

		},
	}
	initSyncCommandFlags(syncCommand.Flags())

	lastSyncCommand := &cobra.Command{
		Use:                   "last-sync",
		DisableFlagsInUseLine: true,
		Short:                 "show the time of the last synchronization",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := initViper(cmd)
			if err != nil {
				return fmt.Errorf("error initializing viper: %w", err)
			}

			timeLayout := ts.ParseLayout(v.GetString(flagTimeLayout))
			timeZone, err := ts.ParseLocation(v.GetString(flagTimeZone))
			if err != nil {
				return fmt.Errorf("error parsing time zone location %q: %w", v.GetString(flagTimeZone), err)
			}

			lastSyncTime, err := state.NewLocalLastSyncFile(v.GetString(flagLastSyncFile)).Load()
			if err != nil || state.IsNever(lastSyncTime) {
				fmt.Println("never")
				return nil
			}

			fmt.Println(timeLayout.Format(lastSyncTime.In(timeZone)))
			return nil
		},
	}
	initLastSyncCommandFlags(lastSyncCommand.Flags())

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(gitCommit) > 0 {
				fmt.Printf("%s (%s %s)\n", BisyncVersion, gitBranch, gitCommit)
				return nil
			}
			fmt.Println(BisyncVersion)
			return nil
		},
	}

	rootCommand.AddCommand(layoutsCommand, listCommand, syncCommand, lastSyncCommand, versionCommand)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCommand.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "bisync: "+err.Error())
		fmt.Fprintln(os.Stderr, "Try \"bisync --help\" for more information.")
		stop()
		os.Exit(1)
	}
}
