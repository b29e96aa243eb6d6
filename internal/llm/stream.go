package llm

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// Fold adds one chunk to the accumulated completion text. A response
// fragment wins over a thinking fragment. done reports the end marker.
func Fold(acc string, c Chunk) (text string, done bool) {
	switch {
	case c.Response != "":
		acc += c.Response
	case c.Thinking != "":
		acc += c.Thinking
	}
	return acc, c.Done
}

// AccumulateStream folds chunks in order until the first done chunk.
func AccumulateStream(chunks []Chunk) string {
	var acc string
	for _, c := range chunks {
		var done bool
		if acc, done = Fold(acc, c); done {
			break
		}
	}
	return acc
}

// DecodeStream reads newline-delimited JSON chunks from r and returns the
// accumulated text. Lines that are not JSON are skipped. Reading stops at the
// end marker or at EOF.
func DecodeStream(r io.Reader) (string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)

	var acc string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var c Chunk
		if err := json.Unmarshal([]byte(line), &c); err != nil {
			continue
		}
		var done bool
		if acc, done = Fold(acc, c); done {
			return acc, nil
		}
	}
	if err := sc.Err(); err != nil {
		return acc, err
	}
	return acc, nil
}

// SingleResponseText extracts the completion from a non-streamed body,
// checking response, completion and choices[0].text in that order. The raw
// body is returned when none is present.
func SingleResponseText(body []byte) string {
	var v struct {
		Response   string `json:"response"`
		Completion string `json:"completion"`
		Choices    []struct {
			Text string `json:"text"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	switch {
	case v.Response != "":
		return v.Response
	case v.Completion != "":
		return v.Completion
	case len(v.Choices) > 0 && v.Choices[0].Text != "":
		return v.Choices[0].Text
	}
	return string(body)
}

// LooksStreamed reports whether a buffered body holds more than one JSON line.
func LooksStreamed(body []byte) bool {
	n := 0
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "{") && json.Valid([]byte(line)) {
			n++
			if n > 1 {
				return true
			}
		}
	}
	return false
}
