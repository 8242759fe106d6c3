package service

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"revdash/internal/database/repository"
)

// clientMatchThreshold is the normalized edit-distance ratio below which an
// imported client name is treated as an existing client.
const clientMatchThreshold = 0.25

// IngestService imports revenue entries from CSV exports.
type IngestService struct {
	Entries  *repository.EntryRepo
	Streams  *repository.StreamRepo
	Products *repository.ProductRepo
	Clients  *repository.ClientRepo
	Log      zerolog.Logger

	// DefaultGroupID receives clients created during import.
	DefaultGroupID string

	streamCache  map[string]repository.Stream
	productCache map[string]repository.Product
	clients      []repository.Client
}

// IngestResult summarises one import run.
type IngestResult struct {
	Imported       int
	Skipped        int
	ClientsCreated int
	Errors         []error
}

// Invalidate drops the in-memory lookup caches. Callers must invoke it after
// anything rewrites streams, products or clients behind this service's back,
// such as a database reset.
func (s *IngestService) Invalidate() {
	s.streamCache = nil
	s.productCache = nil
	s.clients = nil
}

// ImportCSV ingests rows with columns: date, stream, product, client, amount, description.
// Product and client may be blank. Amount is dollars, converted to cents.
// Duplicate rows are suppressed via a source hash UNIQUE constraint.
func (s *IngestService) ImportCSV(ctx context.Context, r io.Reader, tz *time.Location) (IngestResult, error) {
	if tz == nil {
		tz = time.Local
	}
	res := IngestResult{}
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1
	line := 0
	for {
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		if len(rec) < 6 {
			res.Errors = append(res.Errors, fmt.Errorf("line %d: expected 6 columns", line))
			continue
		}
		dateStr, streamName, productName, clientName, amountStr, desc := rec[0], rec[1], rec[2], rec[3], rec[4], rec[5]

		date, err := parseLocalDate(dateStr, tz)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d date: %w", line, err))
			continue
		}
		amountCents, err := dollarsToCents(amountStr)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d amount: %w", line, err))
			continue
		}
		stream, err := s.streamForName(ctx, streamName)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("line %d stream: %w", line, err))
			continue
		}

		var productID *string
		if strings.TrimSpace(productName) != "" {
			p, err := s.productForName(ctx, productName, stream.ID)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("line %d product: %w", line, err))
				continue
			}
			productID = &p.ID
		}

		var clientID *string
		if strings.TrimSpace(clientName) != "" {
			c, created, err := s.clientForName(ctx, clientName)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("line %d client: %w", line, err))
				continue
			}
			if created {
				res.ClientsCreated++
			}
			clientID = &c.ID
		}

		e := repository.Entry{
			ID:          uuid.NewString(),
			StreamID:    stream.ID,
			ProductID:   productID,
			ClientID:    clientID,
			Date:        date,
			AmountCents: amountCents,
			Description: strings.TrimSpace(desc),
			SourceHash:  hashSource(stream.ID, date.Format(time.DateOnly), strconv.FormatInt(amountCents, 10), clientName, desc),
		}
		if err := s.Entries.Insert(ctx, e); err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				res.Skipped++
				continue
			}
			res.Errors = append(res.Errors, fmt.Errorf("line %d insert: %w", line, err))
			continue
		}
		res.Imported++
	}
	s.Log.Info().
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Int("clients_created", res.ClientsCreated).
		Int("errors", len(res.Errors)).
		Msg("csv import finished")
	return res, nil
}

func (s *IngestService) streamForName(ctx context.Context, name string) (repository.Stream, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.Stream{}, errors.New("empty stream name")
	}
	if s.streamCache == nil {
		s.streamCache = map[string]repository.Stream{}
	}
	if st, ok := s.streamCache[name]; ok {
		return st, nil
	}
	st, err := s.Streams.ByName(ctx, name)
	if err != nil {
		return repository.Stream{}, err
	}
	if st == nil {
		created := repository.Stream{ID: uuid.NewString(), Name: name, Kind: repository.StreamOneOff}
		if err := s.Streams.Upsert(ctx, created); err != nil {
			return repository.Stream{}, err
		}
		st = &created
	}
	s.streamCache[name] = *st
	return *st, nil
}

func (s *IngestService) productForName(ctx context.Context, name, streamID string) (repository.Product, error) {
	name = strings.TrimSpace(name)
	if s.productCache == nil {
		s.productCache = map[string]repository.Product{}
	}
	if p, ok := s.productCache[name]; ok {
		return p, nil
	}
	p, err := s.Products.ByName(ctx, name)
	if err != nil {
		return repository.Product{}, err
	}
	if p == nil {
		created := repository.Product{ID: uuid.NewString(), Name: name, StreamID: &streamID}
		if err := s.Products.Upsert(ctx, created); err != nil {
			return repository.Product{}, err
		}
		p = &created
	}
	s.productCache[name] = *p
	return *p, nil
}

// clientForName resolves an imported client name against existing clients.
// Exports spell client names inconsistently ("ACME Corp" vs "Acme Corp."),
// so names within the edit-distance threshold reuse the existing row.
func (s *IngestService) clientForName(ctx context.Context, name string) (repository.Client, bool, error) {
	name = strings.TrimSpace(name)
	if s.clients == nil {
		list, err := s.Clients.List(ctx)
		if err != nil {
			return repository.Client{}, false, err
		}
		s.clients = list
	}

	if best := matchClient(name, s.clients); best != nil {
		return *best, false, nil
	}

	created := repository.Client{ID: uuid.NewString(), Name: name}
	if s.DefaultGroupID != "" {
		gid := s.DefaultGroupID
		created.GroupID = &gid
	}
	if err := s.Clients.Upsert(ctx, created); err != nil {
		return repository.Client{}, false, err
	}
	s.clients = append(s.clients, created)
	s.Log.Debug().Str("client", name).Msg("created client during import")
	return created, true, nil
}

func matchClient(name string, clients []repository.Client) *repository.Client {
	norm := normalizeClientName(name)
	bestRatio := math.Inf(1)
	var best *repository.Client
	for i := range clients {
		candidate := normalizeClientName(clients[i].Name)
		if candidate == norm {
			return &clients[i]
		}
		dist := levenshtein.ComputeDistance(norm, candidate)
		maxlen := len(norm)
		if len(candidate) > maxlen {
			maxlen = len(candidate)
		}
		if maxlen == 0 {
			continue
		}
		ratio := float64(dist) / float64(maxlen)
		if ratio < clientMatchThreshold && ratio < bestRatio {
			bestRatio = ratio
			best = &clients[i]
		}
	}
	return best
}

func normalizeClientName(name string) string {
	s := strings.ToUpper(strings.TrimSpace(name))
	s = strings.TrimSuffix(s, ".")
	return strings.Join(strings.Fields(s), " ")
}

func parseLocalDate(raw string, tz *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02", "2/01/2006", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, raw, tz); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

func dollarsToCents(raw string) (int64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), "$", "")
	raw = strings.ReplaceAll(raw, ",", "")
	if raw == "" {
		return 0, errors.New("empty amount")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(f * 100)), nil
}

func hashSource(parts ...string) *string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	s := fmt.Sprintf("%x", h)
	return &s
}
