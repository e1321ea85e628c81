package render

import "errors"

// ErrPrecondition marks failures detected before the encoder is spawned:
// missing caption track, base video, audio bed, or a track with no
// drawable cue at all.
var ErrPrecondition = errors.New("render precondition failed")

// ErrProcess marks a failure of the external encoder process itself. The
// underlying exit context is preserved in the wrap chain.
var ErrProcess = errors.New("render process failed")
