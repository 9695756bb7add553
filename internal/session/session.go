// Package session ties one upload's results to its step cursor.
package session

import (
	"errors"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	imgio "image-processing-steps/internal/io"
	"image-processing-steps/internal/navigator"
	"image-processing-steps/internal/pipeline"
)

// ErrNoImage is returned by accessors before the first successful Load.
var ErrNoImage = errors.New("no image loaded")

// Download is an encoded result ready to be saved.
type Download struct {
	Filename string
	Data     []byte
}

// Session owns the results of the current upload and the cursor into them.
// Methods are expected to be called from a single goroutine.
type Session struct {
	id      uuid.UUID
	builder *pipeline.Builder
	logger  *logrus.Entry

	name     string
	identity uint64
	results  *pipeline.Results
	nav      *navigator.Navigator[pipeline.Entry]
}

func New(builder *pipeline.Builder, logger *logrus.Logger) *Session {
	id := uuid.New()
	return &Session{
		id:      id,
		builder: builder,
		logger:  logger.WithField("session", id.String()),
	}
}

func (s *Session) ID() string { return s.id.String() }

// Load replaces the current upload with data. Results are rebuilt only when
// the bytes differ from the current upload; the bool reports whether that
// happened. When Load fails the previous results and cursor are kept.
func (s *Session) Load(name string, data []byte) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{"file": name, "bytes": len(data)})

	if err := imgio.ValidateUpload(name, data); err != nil {
		log.WithError(err).Warn("SESSION: upload rejected")
		return false, err
	}

	identity := xxhash.Sum64(data)
	if s.results != nil && identity == s.identity {
		log.Debug("SESSION: same upload, keeping results")
		s.name = name
		return false, nil
	}

	results, err := s.builder.Build(data)
	if err != nil {
		log.WithError(err).Warn("SESSION: build failed, keeping previous state")
		return false, err
	}

	nav, err := navigator.New(results.Entries(), 0)
	if err != nil {
		results.Close()
		return false, err
	}

	s.results.Close()
	s.results = results
	s.nav = nav
	s.name = name
	s.identity = identity

	log.WithField("steps", nav.Len()).Info("SESSION: image loaded")
	return true, nil
}

func (s *Session) Loaded() bool { return s.results != nil }

// Name is the file name of the current upload.
func (s *Session) Name() string { return s.name }

// Current returns the entry at the cursor.
func (s *Session) Current() (pipeline.Entry, error) {
	if s.nav == nil {
		return pipeline.Entry{}, ErrNoImage
	}
	return s.nav.Current(), nil
}

// Step reports the cursor and the number of steps. Both are zero before a load.
func (s *Session) Step() (cursor, total int) {
	if s.nav == nil {
		return 0, 0
	}
	return s.nav.Cursor(), s.nav.Len()
}

func (s *Session) Next() {
	if s.nav == nil {
		return
	}
	s.nav.Advance()
	s.logStep("next")
}

func (s *Session) Previous() {
	if s.nav == nil {
		return
	}
	s.nav.Retreat()
	s.logStep("previous")
}

func (s *Session) logStep(action string) {
	s.logger.WithFields(logrus.Fields{
		"action": action,
		"step":   s.nav.Cursor(),
		"label":  s.nav.Current().Label,
	}).Debug("SESSION: step changed")
}

// Download encodes the current entry. Encoding failures are *core.EncodeError
// and leave the cursor where it is.
func (s *Session) Download() (Download, error) {
	entry, err := s.Current()
	if err != nil {
		return Download{}, err
	}

	data, err := imgio.EncodePNG(entry.Image)
	if err != nil {
		s.logger.WithError(err).WithField("label", entry.Label).Error("SESSION: download failed")
		return Download{}, err
	}

	return Download{
		Filename: imgio.SuggestedFilename(entry.Label),
		Data:     data,
	}, nil
}

// Close releases the current results.
func (s *Session) Close() {
	s.results.Close()
	s.results = nil
	s.nav = nil
	s.identity = 0
	s.name = ""
}
