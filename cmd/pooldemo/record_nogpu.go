//go:build nogpu

package main

import "errors"

func newRecorder() (recorder, error) {
	return nil, errors.New("pooldemo: built without gpu support")
}
