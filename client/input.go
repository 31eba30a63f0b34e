package main

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/cbor-chat/session"
)

// lineInput is the message field, filled by one line of terminal input.
type lineInput struct {
	text string
}

func (l *lineInput) Text() string { return l.text }
func (l *lineInput) Clear()       { l.text = "" }

type submitter interface {
	Submit(author string, input session.Input) error
}

// readInput submits every line read from r. A "/name <author>" line changes the
// author for the following messages.
func readInput(r io.Reader, s submitter, author string) error {
	sc := bufio.NewScanner(r)
	field := &lineInput{}
	for sc.Scan() {
		line := sc.Text()
		if rest, ok := strings.CutPrefix(line, "/name "); ok {
			author = strings.TrimSpace(rest)
			log.Info().Str("author", author).Msg("[chat] author changed")
			continue
		}
		field.text = line
		if err := s.Submit(author, field); err != nil {
			if errors.Is(err, session.ErrNotOpen) {
				log.Warn().Msg("[chat] not connected; message dropped")
				continue
			}
			log.Warn().Err(err).Msg("[chat] send failed")
		}
	}
	return sc.Err()
}
