//go:build linux && alsa && !headless

// audio_backend_alsa.go - ALSA audio output implementation

package main

/*
#cgo LDFLAGS: -lasound
#cgo CFLAGS: -O2
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_FLOAT);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, float* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"unsafe"

	"github.com/intuitionamiga/bitbeat/bytebeat"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:alsa")
}

// ALSAPlayer pushes rendered periods into the default PCM device. The
// blocking write paces the writer goroutine.
type ALSAPlayer struct {
	pushStream
	handle  *C.snd_pcm_t
	samples []float32
	frames  int
}

func openALSA(e *bytebeat.Engine) (AudioOutput, error) {
	cfg := e.Config()
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	var err C.int
	handle := C.openPCM(device, &err)
	if err < 0 {
		return nil, fmt.Errorf("alsa: failed to open PCM device: %s", C.GoString(C.snd_strerror(err)))
	}

	if err = C.setupPCM(handle, C.uint(cfg.SampleRate), C.uint(cfg.Channels)); err < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("alsa: failed to setup PCM: %s", C.GoString(C.snd_strerror(err)))
	}

	ap := &ALSAPlayer{
		handle:  handle,
		samples: make([]float32, PUSH_PERIOD_FRAMES*cfg.Channels),
		frames:  PUSH_PERIOD_FRAMES,
	}
	ap.pushStream = pushStream{
		name:   "alsa",
		engine: e,
		buf:    ap.samples,
		write:  ap.writePeriod,
		reset:  ap.drop,
	}
	return ap, nil
}

func (ap *ALSAPlayer) Name() string { return "alsa" }

func (ap *ALSAPlayer) Start() error {
	ap.mutex.Lock()
	closed := ap.handle == nil
	ap.mutex.Unlock()
	if closed {
		return fmt.Errorf("alsa: device closed")
	}
	return ap.pushStream.Start()
}

func (ap *ALSAPlayer) writePeriod(_ []float32, _ <-chan struct{}) error {
	frames := C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.samples[0])), C.int(ap.frames))
	if frames < 0 {
		if frames == -C.EPIPE {
			C.snd_pcm_prepare(ap.handle)
			frames = C.writePCM(ap.handle, (*C.float)(unsafe.Pointer(&ap.samples[0])), C.int(ap.frames))
		}
		if frames < 0 {
			return fmt.Errorf("write failed: %s", C.GoString(C.snd_strerror(C.int(frames))))
		}
	}
	return nil
}

// drop discards what is queued so a restart begins at t=0 without a tail.
func (ap *ALSAPlayer) drop() {
	C.snd_pcm_drop(ap.handle)
	C.snd_pcm_prepare(ap.handle)
}

func (ap *ALSAPlayer) Close() error {
	ap.Stop()

	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
	return nil
}
