package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Pack struct {
	ID       string
	Language string
	RawTitle string
	Prefix   sql.NullString
	Title    string
	Label    sql.NullString
}

// Card list columns (colors, attributes, types) hold JSON arrays.
type Card struct {
	ID          string
	PackID      string
	Language    string
	Name        string
	Rarity      string
	Category    string
	ImgUrl      string
	ImgFullUrl  sql.NullString
	Colors      string
	Cost        sql.NullInt64
	Attributes  string
	Power       sql.NullInt64
	Counter     sql.NullInt64
	Types       string
	Effect      string
	TriggerText sql.NullString
}

type PullRun struct {
	ID             string
	Language       string
	Mode           string
	StartedAt      int64
	DurationMs     int64
	ImagesIncluded bool
	Failures       int64
}

const upsertPack = `-- name: UpsertPack :exec
insert into pack(id, language, raw_title, prefix, title, label)
values (?, ?, ?, ?, ?, ?)
on conflict (id, language) do update set
    raw_title = excluded.raw_title,
    prefix = excluded.prefix,
    title = excluded.title,
    label = excluded.label
`

func (q *Queries) UpsertPack(ctx context.Context, arg Pack) error {
	_, err := q.db.ExecContext(ctx, upsertPack,
		arg.ID,
		arg.Language,
		arg.RawTitle,
		arg.Prefix,
		arg.Title,
		arg.Label,
	)
	return err
}

const deletePackCards = `-- name: DeletePackCards :exec
delete from card where pack_id = ? and language = ?
`

func (q *Queries) DeletePackCards(ctx context.Context, packID, language string) error {
	_, err := q.db.ExecContext(ctx, deletePackCards, packID, language)
	return err
}

const upsertCard = `-- name: UpsertCard :exec
insert into card(
    id, pack_id, language, name, rarity, category, img_url, img_full_url,
    colors, cost, attributes, power, counter, types, effect, trigger_text
)
values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
on conflict (id, pack_id, language) do update set
    name = excluded.name,
    rarity = excluded.rarity,
    category = excluded.category,
    img_url = excluded.img_url,
    img_full_url = excluded.img_full_url,
    colors = excluded.colors,
    cost = excluded.cost,
    attributes = excluded.attributes,
    power = excluded.power,
    counter = excluded.counter,
    types = excluded.types,
    effect = excluded.effect,
    trigger_text = excluded.trigger_text
`

func (q *Queries) UpsertCard(ctx context.Context, arg Card) error {
	_, err := q.db.ExecContext(ctx, upsertCard,
		arg.ID,
		arg.PackID,
		arg.Language,
		arg.Name,
		arg.Rarity,
		arg.Category,
		arg.ImgUrl,
		arg.ImgFullUrl,
		arg.Colors,
		arg.Cost,
		arg.Attributes,
		arg.Power,
		arg.Counter,
		arg.Types,
		arg.Effect,
		arg.TriggerText,
	)
	return err
}

const listPacks = `-- name: ListPacks :many
select id, language, raw_title, prefix, title, label from pack
where language = ?
order by id
`

func (q *Queries) ListPacks(ctx context.Context, language string) ([]Pack, error) {
	rows, err := q.db.QueryContext(ctx, listPacks, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Pack
	for rows.Next() {
		var i Pack
		err := rows.Scan(
			&i.ID,
			&i.Language,
			&i.RawTitle,
			&i.Prefix,
			&i.Title,
			&i.Label,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPackCards = `-- name: ListPackCards :many
select
    id, pack_id, language, name, rarity, category, img_url, img_full_url,
    colors, cost, attributes, power, counter, types, effect, trigger_text
from card
where pack_id = ? and language = ?
order by id
`

func (q *Queries) ListPackCards(ctx context.Context, packID, language string) ([]Card, error) {
	rows, err := q.db.QueryContext(ctx, listPackCards, packID, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Card
	for rows.Next() {
		var i Card
		err := rows.Scan(
			&i.ID,
			&i.PackID,
			&i.Language,
			&i.Name,
			&i.Rarity,
			&i.Category,
			&i.ImgUrl,
			&i.ImgFullUrl,
			&i.Colors,
			&i.Cost,
			&i.Attributes,
			&i.Power,
			&i.Counter,
			&i.Types,
			&i.Effect,
			&i.TriggerText,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const addPullRun = `-- name: AddPullRun :exec
insert into pull_run(id, language, mode, started_at, duration_ms, images_included, failures)
values (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) AddPullRun(ctx context.Context, arg PullRun) error {
	_, err := q.db.ExecContext(ctx, addPullRun,
		arg.ID,
		arg.Language,
		arg.Mode,
		arg.StartedAt,
		arg.DurationMs,
		arg.ImagesIncluded,
		arg.Failures,
	)
	return err
}
