package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/components/assert"
	"github.com/coko7/vegapull/internal/components/telemetry"
	"github.com/coko7/vegapull/internal/db"
)

const (
	report_sqlstore_write_packs = "sqlstore.write-packs"
	report_sqlstore_write_cards = "sqlstore.write-cards"
	report_sqlstore_write_run   = "sqlstore.write-run"
)

// SQLStore mirrors packs and cards into a sqlite file or a libsql server.
// Each write is one transaction, so a pack's cards are replaced as a whole.
type SQLStore struct {
	db       *sql.DB
	qry      *db.Queries
	makeTx   db.MakeTx
	language string
	tel      telemetry.API
}

// OpenSQLStore opens target, a sqlite path or a libsql url, and applies the
// schema.
func OpenSQLStore(target, language string, tel telemetry.API) (*SQLStore, error) {
	assert.NotEmptyStr(target)
	assert.NotNil(tel)

	database, err := db.Open(target)
	if err != nil {
		return nil, err
	}
	return &SQLStore{
		db:       database,
		qry:      db.New(database),
		makeTx:   db.NewMakeTx(database),
		language: language,
		tel:      telemetry.NewScopedAPI("storage", tel),
	}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	value := int(n.Int64)
	return &value
}

func encodeList[T any](list []T) (string, error) {
	if list == nil {
		list = []T{}
	}
	data, err := json.Marshal(list)
	return string(data), err
}

func decodeList[T any](data string) ([]T, error) {
	out := []T{}
	err := json.Unmarshal([]byte(data), &out)
	return out, err
}

func (s *SQLStore) WritePacks(ctx context.Context, packs []catalog.Pack) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_sqlstore_write_packs, fmt.Errorf("make tx: %w", err))
		return err
	}
	defer discard()

	for _, pack := range packs {
		err = tx.UpsertPack(ctx, db.Pack{
			ID:       pack.ID,
			Language: s.language,
			RawTitle: pack.RawTitle,
			Prefix:   nullString(pack.TitleParts.Prefix),
			Title:    pack.TitleParts.Title,
			Label:    nullString(pack.TitleParts.Label),
		})
		if err != nil {
			s.tel.ReportBroken(report_sqlstore_write_packs, err, pack.ID)
			return fmt.Errorf("upsert pack `%s`: %w", pack.ID, err)
		}
	}
	return commit()
}

func cardRow(card catalog.Card, language string) (db.Card, error) {
	colors, err := encodeList(card.Colors)
	if err != nil {
		return db.Card{}, err
	}
	attributes, err := encodeList(card.Attributes)
	if err != nil {
		return db.Card{}, err
	}
	types, err := encodeList(card.Types)
	if err != nil {
		return db.Card{}, err
	}
	return db.Card{
		ID:          card.ID,
		PackID:      card.PackID,
		Language:    language,
		Name:        card.Name,
		Rarity:      string(card.Rarity),
		Category:    string(card.Category),
		ImgUrl:      card.ImgURL,
		ImgFullUrl:  nullString(card.ImgFullURL),
		Colors:      colors,
		Cost:        nullInt(card.Cost),
		Attributes:  attributes,
		Power:       nullInt(card.Power),
		Counter:     nullInt(card.Counter),
		Types:       types,
		Effect:      card.Effect,
		TriggerText: nullString(card.Trigger),
	}, nil
}

// WriteCards replaces every stored card of a pack.
func (s *SQLStore) WriteCards(ctx context.Context, packID string, cards []catalog.Card) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_sqlstore_write_cards, fmt.Errorf("make tx: %w", err), packID)
		return err
	}
	defer discard()

	err = tx.DeletePackCards(ctx, packID, s.language)
	if err != nil {
		s.tel.ReportBroken(report_sqlstore_write_cards, err, "DeletePackCards", packID)
		return err
	}
	for _, card := range cards {
		card.PackID = packID
		row, err := cardRow(card, s.language)
		if err != nil {
			return fmt.Errorf("encode card `%s`: %w", card.ID, err)
		}
		err = tx.UpsertCard(ctx, row)
		if err != nil {
			s.tel.ReportBroken(report_sqlstore_write_cards, err, "UpsertCard", packID, card.ID)
			return fmt.Errorf("upsert card `%s`: %w", card.ID, err)
		}
	}
	return commit()
}

func (s *SQLStore) WriteRun(ctx context.Context, stats MetaStats) error {
	err := s.qry.AddPullRun(ctx, db.PullRun{
		ID:             stats.RunID,
		Language:       stats.Language,
		Mode:           string(stats.Mode),
		StartedAt:      stats.PullStart.Unix(),
		DurationMs:     stats.PullDurationMS,
		ImagesIncluded: stats.ImagesIncluded,
		Failures:       int64(stats.Failures),
	})
	if err != nil {
		s.tel.ReportBroken(report_sqlstore_write_run, err, stats.RunID)
		return err
	}
	return nil
}

func (s *SQLStore) Packs(ctx context.Context) ([]catalog.Pack, error) {
	rows, err := s.qry.ListPacks(ctx, s.language)
	if err != nil {
		return nil, err
	}
	packs := make([]catalog.Pack, len(rows))
	for i, row := range rows {
		packs[i] = catalog.Pack{
			ID:       row.ID,
			RawTitle: row.RawTitle,
			TitleParts: catalog.TitleParts{
				Prefix: fromNullString(row.Prefix),
				Title:  row.Title,
				Label:  fromNullString(row.Label),
			},
		}
	}
	return packs, nil
}

// Cards lists the stored cards of a pack ordered by card id.
func (s *SQLStore) Cards(ctx context.Context, packID string) ([]catalog.Card, error) {
	rows, err := s.qry.ListPackCards(ctx, packID, s.language)
	if err != nil {
		return nil, err
	}
	cards := make([]catalog.Card, len(rows))
	for i, row := range rows {
		colors, err := decodeList[catalog.Color](row.Colors)
		if err != nil {
			return nil, fmt.Errorf("decode colors of `%s`: %w", row.ID, err)
		}
		attributes, err := decodeList[catalog.Attribute](row.Attributes)
		if err != nil {
			return nil, fmt.Errorf("decode attributes of `%s`: %w", row.ID, err)
		}
		types, err := decodeList[string](row.Types)
		if err != nil {
			return nil, fmt.Errorf("decode types of `%s`: %w", row.ID, err)
		}
		cards[i] = catalog.Card{
			ID:         row.ID,
			PackID:     row.PackID,
			Name:       row.Name,
			Rarity:     catalog.Rarity(row.Rarity),
			Category:   catalog.Category(row.Category),
			ImgURL:     row.ImgUrl,
			ImgFullURL: fromNullString(row.ImgFullUrl),
			Colors:     colors,
			Cost:       fromNullInt(row.Cost),
			Attributes: attributes,
			Power:      fromNullInt(row.Power),
			Counter:    fromNullInt(row.Counter),
			Types:      types,
			Effect:     row.Effect,
			Trigger:    fromNullString(row.TriggerText),
		}
	}
	return cards, nil
}
