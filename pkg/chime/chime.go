// Package chime plays the notification sound. Playback is fire-and-forget:
// Play never blocks, never reports errors to the caller, and the number of
// concurrent playback processes is bounded so a change storm cannot fork a
// process per event.
package chime

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vanderheijden86/fsglow/pkg/debug"
)

// SoundFileName is the sound file looked for next to the executable and in
// the monitored directory.
const SoundFileName = "chime.mp3"

// playTimeout kills a playback process that refuses to exit.
const playTimeout = 10 * time.Second

// linuxPlayers are tried in order until one is found on PATH.
var linuxPlayers = []string{"mpg123", "mpv", "vlc", "mplayer", "ffplay"}

// Player plays a sound file through whatever the platform offers.
type Player struct {
	sound string
	sem   *semaphore.Weighted
}

// NewPlayer creates a player for the given sound file. maxConcurrent bounds
// simultaneous playback processes; values below 1 mean 1.
func NewPlayer(sound string, maxConcurrent int64) *Player {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Player{
		sound: sound,
		sem:   semaphore.NewWeighted(maxConcurrent),
	}
}

// Sound returns the configured sound file path.
func (p *Player) Sound() string {
	return p.sound
}

// Available reports whether the sound file exists.
func (p *Player) Available() bool {
	if p.sound == "" {
		return false
	}
	_, err := os.Stat(p.sound)
	return err == nil
}

// Play starts playback in the background and returns immediately. When the
// concurrency budget is exhausted the chime is dropped; a missed overlapping
// chime is inaudible anyway.
func (p *Player) Play() {
	if !p.Available() {
		return
	}
	if !p.sem.TryAcquire(1) {
		debug.Log("chime: playback budget exhausted, dropping")
		return
	}
	go func() {
		defer p.sem.Release(1)
		p.run()
	}()
}

// run executes the platform playback command and waits for it with a
// timeout. Errors are logged, never surfaced.
func (p *Player) run() {
	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	cmd := playbackCommand(ctx, p.sound)
	if cmd == nil {
		debug.Log("chime: no playback command available on %s", runtime.GOOS)
		return
	}
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Run(); err != nil {
		debug.Log("chime: playback failed: %v", err)
	}
}

// playbackCommand picks the platform playback invocation, or nil if none is
// available.
func playbackCommand(ctx context.Context, sound string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "afplay", sound)
	case "windows":
		script := fmt.Sprintf(
			"try { Add-Type -AssemblyName presentationCore; "+
				"$p = New-Object system.windows.media.mediaplayer; "+
				"$p.open([uri]'%s'); $p.Play(); Start-Sleep 1; $p.Stop() } catch {}",
			sound)
		return exec.CommandContext(ctx, "powershell",
			"-ExecutionPolicy", "Bypass", "-NoProfile", "-c", script)
	default:
		for _, player := range linuxPlayers {
			if _, err := exec.LookPath(player); err == nil {
				return exec.CommandContext(ctx, player, sound)
			}
		}
		return nil
	}
}

// Resolve locates the sound file: an explicit configured path wins, then a
// file next to the executable, then one inside the monitored root. Returns
// "" when none exists.
func Resolve(configured, root string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	if exe, err := os.Executable(); err == nil {
		beside := filepath.Join(filepath.Dir(exe), SoundFileName)
		if _, err := os.Stat(beside); err == nil {
			return beside
		}
	}
	inRoot := filepath.Join(root, SoundFileName)
	if _, err := os.Stat(inRoot); err == nil {
		return inRoot
	}
	return ""
}
