package provider

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Command and stream-parsing constants
const (
	YTDLPCommand = "yt-dlp"

	// eventTag marks machine-readable lines among yt-dlp's normal output.
	eventTag = "@tubegrab@"

	// errorLinePrefix is yt-dlp's stderr prefix for per-item errors.
	errorLinePrefix = "ERROR:"

	// downloadLinePrefix tags informational download lines on stdout.
	downloadLinePrefix = "[download]"
)

// Progress template definitions. Every field uses the %(...)j conversion so
// missing values serialize as JSON null instead of the literal "NA".
const (
	downloadTemplate = `download:` + eventTag +
		`{"status":"downloading",` +
		`"downloaded":%(progress.downloaded_bytes)j,` +
		`"total":%(progress.total_bytes)j,` +
		`"total_estimate":%(progress.total_bytes_estimate)j,` +
		`"speed":%(progress.speed)j,` +
		`"eta":%(progress.eta)j,` +
		`"filename":%(progress.filename)j,` +
		`"info":{"id":%(info.id)j,"title":%(info.title)j,` +
		`"playlist_index":%(info.playlist_index)j,"n_entries":%(info.n_entries)j,` +
		`"playlist_title":%(info.playlist_title)j}}`

	postprocessTemplate = `postprocess:` + eventTag +
		`{"status":"postprocessor",` +
		`"info":{"id":%(info.id)j,"title":%(info.title)j,` +
		`"playlist_index":%(info.playlist_index)j,"n_entries":%(info.n_entries)j,` +
		`"playlist_title":%(info.playlist_title)j,"filepath":%(info.filepath)j}}`

	finishedTemplate = `after_move:` + eventTag +
		`{"status":"finished",` +
		`"info":{"id":%(id)j,"title":%(title)j,` +
		`"playlist_index":%(playlist_index)j,"n_entries":%(n_entries)j,` +
		`"playlist_title":%(playlist_title)j,"filepath":%(filepath)j}}`
)

// YTDLP drives the yt-dlp binary as a child process. One Run call owns the
// whole child lifecycle; cancellation of the passed context terminates the
// process (best effort, may not stop promptly if the child ignores signals).
type YTDLP struct {
	binPath    string
	ffmpegPath string // empty when ffmpeg is unavailable
	logger     *zap.Logger
}

// NewYTDLP creates a provider around the given binary locations.
func NewYTDLP(binPath, ffmpegPath string, logger *zap.Logger) *YTDLP {
	if binPath == "" {
		binPath = YTDLPCommand
	}
	return &YTDLP{binPath: binPath, ffmpegPath: ffmpegPath, logger: logger}
}

// Run executes one download. Events are delivered to sink strictly in the
// order the child emits them. The returned error is nil on full success,
// ErrAborted when ctx was canceled, or a *FatalError for failures that must
// stop the task; per-item playlist errors arrive as events only.
func (y *YTDLP) Run(ctx context.Context, url string, cfg Config, sink EventSink) error {
	if err := cfg.Validate(); err != nil {
		return &FatalError{Msg: "invalid provider configuration", Err: err}
	}

	args := y.buildArgs(cfg)
	args = append(args, url)

	cmd := exec.CommandContext(ctx, y.binPath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &FatalError{Msg: "failed to open stdout pipe", Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &FatalError{Msg: "failed to open stderr pipe", Err: err}
	}

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return &CapabilityError{Capability: YTDLPCommand}
		}
		return &FatalError{Msg: "failed to start yt-dlp", Err: err}
	}
	y.logger.Debug("yt-dlp started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Int("args", len(args)))

	// Sink calls are serialized across the two stream readers.
	var emitMu sync.Mutex
	emit := func(ev Event) {
		emitMu.Lock()
		defer emitMu.Unlock()
		sink(ev)
	}

	var lastError string
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			y.parseStdoutLine(scanner.Text(), emit)
		}
	}()

	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if msg, ok := strings.CutPrefix(line, errorLinePrefix); ok {
				msg = strings.TrimSpace(msg)
				lastError = msg
				emit(Event{Status: StatusError, Err: msg})
			}
		}
	}()

	wg.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return ErrAborted
	}
	if waitErr == nil {
		return nil
	}

	// Playlist runs with --ignore-errors exit non-zero when any item
	// failed; those failures were already surfaced as events.
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && cfg.IgnoreErrors {
		y.logger.Info("yt-dlp finished with item errors",
			zap.Int("exit_code", exitErr.ExitCode()))
		return nil
	}

	msg := "download failed"
	if lastError != "" {
		msg = FriendlyMessage(lastError)
	}
	return &FatalError{Msg: msg, Err: waitErr}
}

// parseStdoutLine routes one stdout line: tagged JSON event lines, archive
// skip notices, everything else ignored.
func (y *YTDLP) parseStdoutLine(line string, emit func(Event)) {
	if idx := strings.Index(line, eventTag); idx >= 0 {
		payload := line[idx+len(eventTag):]
		if ev, ok := decodeWireEvent(payload); ok {
			emit(ev)
		} else {
			y.logger.Warn("unparseable progress line", zap.String("line", payload))
		}
		return
	}

	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, downloadLinePrefix) && IsArchiveSkip(trimmed) {
		emit(Event{
			Status: StatusError,
			Err:    strings.TrimSpace(strings.TrimPrefix(trimmed, downloadLinePrefix)),
		})
	}
}

// buildArgs translates a Config into yt-dlp command-line arguments.
func (y *YTDLP) buildArgs(cfg Config) []string {
	args := []string{
		"--newline",
		"--no-warnings",
		"--no-quiet",
		"--progress-template", downloadTemplate,
		"--progress-template", postprocessTemplate,
		"--print", finishedTemplate,
		"-f", cfg.Format,
		"-o", cfg.OutputTemplate,
	}

	for _, pp := range cfg.Postprocessors {
		switch pp.Key {
		case PPExtractAudio:
			args = append(args, "-x", "--audio-format", pp.Codec, "--audio-quality", pp.Quality)
		case PPConvertThumbnails:
			args = append(args, "--convert-thumbnails", pp.Format)
		case PPEmbedThumbnail:
			args = append(args, "--embed-thumbnail")
		case PPEmbedMetadata:
			args = append(args, "--embed-metadata")
		}
	}

	if cfg.DownloadArchive != "" {
		args = append(args, "--download-archive", cfg.DownloadArchive)
	}
	if cfg.YesPlaylist {
		args = append(args, "--yes-playlist")
	}
	if cfg.NoPlaylist {
		args = append(args, "--no-playlist")
	}
	if cfg.IgnoreErrors {
		args = append(args, "--ignore-errors")
	}
	if cfg.SleepInterval > 0 {
		args = append(args, "--sleep-interval", strconv.Itoa(cfg.SleepInterval))
	}
	if cfg.Retries > 0 {
		args = append(args, "--retries", strconv.Itoa(cfg.Retries))
	}
	if cfg.CookieFile != "" {
		args = append(args, "--cookies", cfg.CookieFile)
	}
	if cfg.WriteThumbnail {
		args = append(args, "--write-thumbnail")
	}
	if cfg.WriteInfoJSON {
		args = append(args, "--write-info-json", "--clean-info-json")
	}
	if cfg.WriteDescription {
		args = append(args, "--write-description")
	}
	if cfg.WriteSubtitles {
		args = append(args, "--write-subs")
	}
	if cfg.AlbumFromPlaylist {
		args = append(args, "--parse-metadata", "%(playlist_title)s:%(meta_album)s")
	}
	if y.ffmpegPath != "" {
		args = append(args, "--ffmpeg-location", y.ffmpegPath)
	}
	return args
}

// wireEvent mirrors the JSON shape of the progress templates. Pointer
// fields absorb JSON nulls for values yt-dlp did not know.
type wireEvent struct {
	Status        string   `json:"status"`
	Downloaded    *int64   `json:"downloaded"`
	Total         *int64   `json:"total"`
	TotalEstimate *int64   `json:"total_estimate"`
	Speed         *float64 `json:"speed"`
	Eta           *float64 `json:"eta"`
	Filename      string   `json:"filename"`
	Info          wireInfo `json:"info"`
}

type wireInfo struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	PlaylistIndex *int   `json:"playlist_index"`
	NEntries      *int   `json:"n_entries"`
	PlaylistTitle string `json:"playlist_title"`
	Filepath      string `json:"filepath"`
}

func decodeWireEvent(payload string) (Event, bool) {
	var w wireEvent
	if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &w); err != nil {
		return Event{}, false
	}

	ev := Event{
		Status:   Status(w.Status),
		Filename: w.Filename,
		ETASec:   -1,
		Info: Info{
			ID:            w.Info.ID,
			Title:         w.Info.Title,
			PlaylistTitle: w.Info.PlaylistTitle,
			Filepath:      w.Info.Filepath,
		},
	}
	switch ev.Status {
	case StatusDownloading, StatusFinished, StatusError, StatusPostprocessor:
	default:
		return Event{}, false
	}

	if w.Info.PlaylistIndex != nil {
		ev.Info.PlaylistIndex = *w.Info.PlaylistIndex
	}
	if w.Info.NEntries != nil {
		ev.Info.NEntries = *w.Info.NEntries
	}
	if w.Downloaded != nil {
		ev.Downloaded = *w.Downloaded
	}
	if w.Total != nil {
		ev.Total = *w.Total
	} else if w.TotalEstimate != nil {
		ev.Total = *w.TotalEstimate
	}
	if ev.Total > 0 {
		ev.Percent = float64(ev.Downloaded) / float64(ev.Total) * 100
	}
	if w.Speed != nil {
		ev.Speed = *w.Speed
	}
	if w.Eta != nil {
		ev.ETASec = int(*w.Eta)
	}
	return ev, true
}
