package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-enhance/internal/codec"
	"github.com/ironsheep/image-enhance/internal/config"
	"github.com/ironsheep/image-enhance/internal/raster"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommands()
	t.Cleanup(resetCommands)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetCommands clears the configuration and every flag set by a previous
// execution. Repeatable flags would otherwise accumulate values.
func resetCommands() {
	config.Reset()
	configPath = ""
	rootCmd.PersistentFlags().VisitAll(resetFlag)
	for _, cmd := range rootCmd.Commands() {
		cmd.Flags().VisitAll(resetFlag)
	}
}

// resetFlag restores a flag to its default so commands can be executed
// several times in one process.
func resetFlag(f *pflag.Flag) {
	if !f.Changed {
		return
	}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		_ = sv.Replace(nil)
	} else {
		_ = f.Value.Set(f.DefValue)
	}
	f.Changed = false
}

func writeTestImage(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeTestImage(t, in, color.RGBA{0, 100, 200, 255})

	stdout, err := execute(t, "apply", "-i", in, "-o", out, "--keep-size",
		"--op", "contrast", "--param", `contrast={"gain":1,"offset":10}`,
		"--op", "negative")
	require.NoError(t, err)
	assert.Contains(t, stdout, "8x6")

	img, err := codec.Loader{}.Load(out)
	require.NoError(t, err)
	want, _ := raster.Filled(8, 6, 245, 145, 45)
	assert.True(t, img.Buffer.Equal(want), "got %v", img.Buffer)
}

func TestApplyCommand_Canvas(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.bmp")
	writeTestImage(t, in, color.White)

	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[canvas]\nwidth = 16\nheight = 12\n"), 0600))

	_, err := execute(t, "apply", "-c", cfg, "-i", in, "-o", out, "--op", "grayscale")
	require.NoError(t, err)

	img, err := codec.Loader{}.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Buffer.Width())
	assert.Equal(t, 12, img.Buffer.Height())
}

func TestApplyCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeTestImage(t, in, color.Black)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown operation", []string{"--op", "sepia"}, "unknown operation"},
		{"all-zero log transform", []string{"--op", "logTransform"}, "image maximum is 0"},
		{"failure after a successful op", []string{"--op", "negative", "--op", "blur", "--param", `blur={"kernel_size":4}`}, "kernel_size"},
		{"unknown parameter", []string{"--op", "gammaCorrect", "--param", `gammaCorrect={"gama":3}`}, "gama"},
		{"malformed param", []string{"--op", "negative", "--param", "negative"}, "want op=JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "o.png")
			args := append([]string{"apply", "-i", in, "-o", out}, tt.args...)
			_, err := execute(t, args...)
			assert.ErrorContains(t, err, tt.want)

			_, statErr := os.Stat(out)
			assert.True(t, os.IsNotExist(statErr), "nothing is written on failure")
		})
	}
}

func TestApplyCommand_RepeatedRuns(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeTestImage(t, in, color.RGBA{0, 100, 200, 255})

	_, err := execute(t, "apply", "-i", in, "-o", filepath.Join(dir, "a.png"), "--keep-size", "--op", "negative")
	require.NoError(t, err)

	// The second run must not inherit the first run's --op.
	out := filepath.Join(dir, "b.png")
	stdout, err := execute(t, "apply", "-i", in, "-o", out, "--keep-size", "--op", "contrast",
		"--param", `contrast={"gain":1,"offset":5}`)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 operation(s)")

	img, err := codec.Loader{}.Load(out)
	require.NoError(t, err)
	want, _ := raster.Filled(8, 6, 5, 105, 205)
	assert.True(t, img.Buffer.Equal(want), "got %v", img.Buffer)
}

func TestOpsCommand(t *testing.T) {
	stdout, err := execute(t, "ops")
	require.NoError(t, err)
	assert.Contains(t, stdout, "binaryThreshold")
	assert.Contains(t, stdout, "edgeDetect")
}
