package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/domino14/yahtzee-ev/evtable"
	"github.com/domino14/yahtzee-ev/scorecard"
)

// WriteJSON streams every written state of t to w. States come out in key
// order, so each scorecard's buckets are contiguous and the object can be
// emitted without building it in memory.
func WriteJSON(t *evtable.Table, w io.Writer) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 64)
	first := true
	cur := scorecard.Scorecard(0)
	open := false
	n := 0

	bw.WriteByte('{')
	for k, ev := range t.All() {
		if !open || k.Scorecard != cur {
			if open {
				bw.WriteString("},")
			}
			cur = k.Scorecard
			open = true
			first = true
			buf = strconv.AppendQuote(buf[:0], cur.String())
			bw.Write(buf)
			bw.WriteString(":{")
		}
		if !first {
			bw.WriteByte(',')
		}
		first = false
		buf = buf[:0]
		buf = append(buf, '"')
		buf = strconv.AppendInt(buf, int64(k.Bucket), 10)
		buf = append(buf, '"', ':')
		buf = strconv.AppendFloat(buf, ev, 'g', -1, 64)
		bw.Write(buf)
		n++
	}
	if open {
		bw.WriteByte('}')
	}
	bw.WriteByte('}')
	if err := bw.Flush(); err != nil {
		return err
	}
	log.Debug().Int("states", n).Msg("wrote-json")
	return nil
}

func WriteJSONFile(t *evtable.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(t, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadJSON rebuilds a table from WriteJSON output.
func ReadJSON(r io.Reader) (*evtable.Table, error) {
	var raw map[string]map[string]float64
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding state map: %w", err)
	}
	t := evtable.New()
	for cs, buckets := range raw {
		s, err := scorecard.Parse(cs)
		if err != nil {
			return nil, err
		}
		for bs, ev := range buckets {
			b, err := strconv.Atoi(bs)
			if err != nil {
				return nil, fmt.Errorf("bad bucket %q for %s: %w", bs, cs, err)
			}
			if err := t.Set(s, b, ev); err != nil {
				return nil, err
			}
		}
	}
	log.Debug().Int("states", t.Written()).Msg("read-json")
	return t, nil
}

func ReadJSONFile(path string) (*evtable.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}
