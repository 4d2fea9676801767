package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fyneapp "fyne.io/fyne/v2/app"

	"github.com/tubegrab/tubegrab/internal/app"
	"github.com/tubegrab/tubegrab/internal/config"
	"github.com/tubegrab/tubegrab/internal/model"
	"github.com/tubegrab/tubegrab/internal/tui"
	"github.com/tubegrab/tubegrab/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const appID = "com.tubegrab.tubegrab"

func main() {
	var (
		urlFlag     = flag.String("url", "", "download this URL from the terminal instead of opening the GUI")
		audioFlag   = flag.Bool("audio", true, "extract audio (mp3); use -audio=false for video")
		outFlag     = flag.String("o", "", "output directory (terminal mode)")
		historyFlag = flag.Int("history", 0, "print the N most recent runs and exit")
		verboseFlag = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	audioSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "audio" {
			audioSet = true
		}
	})

	terminal := *urlFlag != "" || *historyFlag > 0 || flag.NArg() > 0

	appCtx, err := app.New(app.Options{
		Verbose:     *verboseFlag,
		LogToStderr: !terminal,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "tubegrab: %v\n", err)
		os.Exit(1)
	}
	defer appCtx.Close()

	if *historyFlag > 0 {
		os.Exit(printHistory(appCtx, *historyFlag))
	}
	if terminal {
		os.Exit(runTerminal(appCtx, *urlFlag, *audioFlag, audioSet, *outFlag))
	}

	runGUI(appCtx)
}

// runGUI starts the Fyne desktop shell.
func runGUI(appCtx *app.Context) {
	fmt.Printf("TubeGrab v%s starting...\n", version)

	fyneApp := fyneapp.NewWithID(appID)
	window := fyneApp.NewWindow(ui.WindowTitle)

	root := ui.NewRootUI(fyneApp, window, appCtx)
	window.SetOnClosed(func() {
		appCtx.Service.AbortAll()
		root.PersistTasks()
	})

	window.ShowAndRun()
}

// runTerminal downloads the given URLs sequentially with Ctrl-C aborting
// the current task. The config file's default mode applies unless -audio
// was given explicitly.
func runTerminal(appCtx *app.Context, urlFlag string, audio, audioSet bool, outDir string) int {
	configPath, err := config.DefaultFilePath(app.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tubegrab: %v\n", err)
		return 1
	}
	settings, err := config.LoadFile(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tubegrab: bad config %s: %v\n", configPath, err)
		return 1
	}
	if outDir != "" {
		settings.DownloadDir = outDir
	}

	mode := settings.ModeOrDefault()
	if audioSet {
		mode = model.ModeAudio
		if !audio {
			mode = model.ModeVideo
		}
	}

	urls := flag.Args()
	if urlFlag != "" {
		urls = append([]string{urlFlag}, urls...)
	}
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "tubegrab: no URLs given")
		return 2
	}

	runner := tui.NewRunner(appCtx, settings, os.Stdout)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nStopping...")
		runner.Abort()
	}()
	defer signal.Stop(sigCh)

	exitCode := 0
	for _, u := range urls {
		if err := runner.Download(u, mode); err != nil {
			fmt.Fprintf(os.Stderr, "tubegrab: %v\n", err)
			exitCode = 1
		}
	}
	return exitCode
}

// printHistory lists the most recent finished runs.
func printHistory(appCtx *app.Context, limit int) int {
	if appCtx.History == nil {
		fmt.Fprintln(os.Stderr, "tubegrab: run history is unavailable")
		return 1
	}
	records, err := appCtx.History.Recent(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tubegrab: %v\n", err)
		return 1
	}
	for _, rec := range records {
		fmt.Printf("%s  %-22s  %s  (%d ok, %d failed, %d skipped)\n",
			rec.FinishedAt.Format("2006-01-02 15:04"), rec.Outcome, rec.URL,
			rec.Downloaded, rec.Failed, rec.Skipped)
	}
	return 0
}
