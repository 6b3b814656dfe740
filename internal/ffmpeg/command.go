package ffmpeg

// Fixed output parameters: constant target quality, single-pass fast preset,
// and a faststart container layout so artifacts are progressive-download
// friendly straight out of the encoder.
const (
	videoCodec   = "libx264"
	audioCodec   = "aac"
	audioBitrate = "128k"
	preset       = "veryfast"
	crf          = "23"
)

// Job is one fully-resolved render invocation: absolute paths, translated
// time range, and compiled filter chains.
type Job struct {
	InputPath  string
	OutputPath string
	Seek       string // HH:MM:SS.mmm
	Duration   string // HH:MM:SS.mmm
	Video      Chain
	Audio      Chain
}

// BuildArgs constructs the complete ffmpeg argument vector for a job,
// excluding the binary itself. Arguments are always passed as a vector;
// nothing here is ever joined into a shell line, so the drawtext escaping is
// the only point where untrusted content needs quoting.
func BuildArgs(j Job) []string {
	args := make([]string, 0, 32)

	args = append(args, "-hide_banner", "-nostdin", "-y", "-loglevel", "error")

	// -ss before -i seeks on the demuxer, which is the fast path.
	args = append(args, "-ss", j.Seek)
	args = append(args, "-i", j.InputPath)
	args = append(args, "-t", j.Duration)

	if !j.Video.Empty() {
		args = append(args, "-vf", j.Video.Expr())
	}
	if !j.Audio.Empty() {
		args = append(args, "-af", j.Audio.Expr())
	}

	args = append(args,
		"-c:v", videoCodec,
		"-preset", preset,
		"-crf", crf,
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
	)

	args = append(args, j.OutputPath)
	return args
}
