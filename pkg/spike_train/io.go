package spike_train

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Session is a set of trains recorded over one observation window.
type Session struct {
	Unit   Unit
	Trains []SpikeTrain
}

type sessionFile struct {
	Unit   string      `yaml:"unit"`
	TStart float64     `yaml:"t_start"`
	TStop  float64     `yaml:"t_stop"`
	Trains []trainFile `yaml:"trains"`
}

type trainFile struct {
	Name  string    `yaml:"name"`
	Times []float64 `yaml:"times,flow"`
}

// LoadSession reads a YAML session file.
func LoadSession(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", path, err)
	}
	defer f.Close()
	return DecodeSession(f)
}

// DecodeSession parses a session document. Missing unit defaults to ms.
// Train times may be unsorted; they are sorted and de-duplicated.
func DecodeSession(r io.Reader) (*Session, error) {
	var doc sessionFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}

	unit := Millisecond
	if doc.Unit != "" {
		u, err := ParseUnit(doc.Unit)
		if err != nil {
			return nil, err
		}
		unit = u
	}

	s := &Session{Unit: unit, Trains: make([]SpikeTrain, 0, len(doc.Trains))}
	for i, tf := range doc.Trains {
		name := tf.Name
		if name == "" {
			name = fmt.Sprintf("n%d", i)
		}
		train, err := FromUnsorted(name, tf.Times, doc.TStart, doc.TStop)
		if err != nil {
			return nil, err
		}
		s.Trains = append(s.Trains, train)
	}
	if err := CheckSession(s.Trains); err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeSession writes trains in the format DecodeSession reads.
func EncodeSession(w io.Writer, s *Session) error {
	if err := CheckSession(s.Trains); err != nil {
		return err
	}
	doc := sessionFile{
		Unit:   string(s.Unit),
		TStart: s.Trains[0].TStart,
		TStop:  s.Trains[0].TStop,
	}
	for _, tr := range s.Trains {
		doc.Trains = append(doc.Trains, trainFile{Name: tr.Name, Times: tr.Times})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return enc.Close()
}
