package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/lgodoyplay/cerco-sub000/model"
)

// defaultPragmas are applied to every connection
var defaultPragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(10000)",
	"journal_mode(WAL)",
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	case_id        TEXT PRIMARY KEY,
	title          TEXT NOT NULL,
	subtitle       TEXT NOT NULL DEFAULT '',
	generated_at   TEXT NOT NULL,
	authority_name TEXT NOT NULL DEFAULT '',
	authority_role TEXT NOT NULL DEFAULT '',
	authority_id   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sections (
	case_id  TEXT    NOT NULL REFERENCES reports(case_id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	heading  TEXT    NOT NULL DEFAULT '',
	PRIMARY KEY (case_id, position)
);

CREATE TABLE IF NOT EXISTS blocks (
	case_id  TEXT    NOT NULL,
	section  INTEGER NOT NULL,
	position INTEGER NOT NULL,
	kind     TEXT    NOT NULL,
	payload  TEXT    NOT NULL,
	image    BLOB,
	PRIMARY KEY (case_id, section, position),
	FOREIGN KEY (case_id, section) REFERENCES sections(case_id, position) ON DELETE CASCADE
);
`

// SQLiteProvider stores reports in a SQLite database. Block fields are kept
// as YAML payloads in the same shape as report documents; image bytes live
// in a BLOB column.
type SQLiteProvider struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteProvider, error) {
	dsn := path
	if !strings.Contains(path, "?") {
		dsn += "?_pragma=" + strings.Join(defaultPragmas, "&_pragma=")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &SQLiteProvider{db: db}
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Migrate creates the tables if they do not exist.
func (p *SQLiteProvider) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (p *SQLiteProvider) Close() error {
	return p.db.Close()
}

// Save stores report, replacing any report with the same case ID.
func (p *SQLiteProvider) Save(ctx context.Context, report *model.Report) error {
	if report == nil || strings.TrimSpace(report.CaseID) == "" {
		return fmt.Errorf("%w: report needs a case ID", ErrInvalidDocument)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE case_id = ?`, report.CaseID); err != nil {
		return fmt.Errorf("delete report %s: %w", report.CaseID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (case_id, title, subtitle, generated_at, authority_name, authority_role, authority_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.CaseID, report.Title, report.Subtitle,
		report.GeneratedAt.UTC().Format(time.RFC3339Nano),
		report.AuthorityName, report.AuthorityRole, report.AuthorityID)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", report.CaseID, err)
	}

	for si, s := range report.Sections {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sections (case_id, position, heading) VALUES (?, ?, ?)`,
			report.CaseID, si, s.Heading); err != nil {
			return fmt.Errorf("insert section %d: %w", si+1, err)
		}

		for bi, b := range s.Blocks {
			bd, err := encodeBlock(b)
			if err != nil {
				return fmt.Errorf("section %d block %d: %w", si+1, bi+1, err)
			}
			payload, err := yaml.Marshal(bd)
			if err != nil {
				return fmt.Errorf("section %d block %d: %w", si+1, bi+1, err)
			}
			var image []byte
			if img, ok := b.(*model.ImageBlock); ok {
				image = img.Data
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO blocks (case_id, section, position, kind, payload, image) VALUES (?, ?, ?, ?, ?, ?)`,
				report.CaseID, si, bi, bd.Kind, string(payload), image); err != nil {
				return fmt.Errorf("insert section %d block %d: %w", si+1, bi+1, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Report loads the report for caseID.
func (p *SQLiteProvider) Report(ctx context.Context, caseID string) (*model.Report, error) {
	r := &model.Report{CaseID: caseID}
	var generatedAt string
	err := p.db.QueryRowContext(ctx, `
		SELECT title, subtitle, generated_at, authority_name, authority_role, authority_id
		FROM reports WHERE case_id = ?`, caseID).
		Scan(&r.Title, &r.Subtitle, &generatedAt, &r.AuthorityName, &r.AuthorityRole, &r.AuthorityID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: case %q", ErrNotFound, caseID)
	}
	if err != nil {
		return nil, fmt.Errorf("query report %s: %w", caseID, err)
	}
	if r.GeneratedAt, err = time.Parse(time.RFC3339Nano, generatedAt); err != nil {
		return nil, fmt.Errorf("report %s: generated_at: %w", caseID, err)
	}

	if r.Sections, err = p.sections(ctx, caseID); err != nil {
		return nil, err
	}
	if err := p.blocks(ctx, caseID, r.Sections); err != nil {
		return nil, err
	}
	return r, nil
}

func (p *SQLiteProvider) sections(ctx context.Context, caseID string) ([]model.Section, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT heading FROM sections WHERE case_id = ? ORDER BY position`, caseID)
	if err != nil {
		return nil, fmt.Errorf("query sections %s: %w", caseID, err)
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.Heading); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (p *SQLiteProvider) blocks(ctx context.Context, caseID string, sections []model.Section) error {
	rows, err := p.db.QueryContext(ctx,
		`SELECT section, payload, image FROM blocks WHERE case_id = ? ORDER BY section, position`, caseID)
	if err != nil {
		return fmt.Errorf("query blocks %s: %w", caseID, err)
	}
	defer rows.Close()

	d := &decoder{}
	for rows.Next() {
		var (
			section int
			payload string
			image   []byte
		)
		if err := rows.Scan(&section, &payload, &image); err != nil {
			return fmt.Errorf("scan block: %w", err)
		}
		if section < 0 || section >= len(sections) {
			return fmt.Errorf("%w: block references missing section %d", ErrInvalidDocument, section)
		}

		var bd blockDoc
		if err := yaml.Unmarshal([]byte(payload), &bd); err != nil {
			return fmt.Errorf("%w: section %d: %w", ErrInvalidDocument, section+1, err)
		}
		b, err := d.block(bd)
		if err != nil {
			return fmt.Errorf("%w: section %d: %w", ErrInvalidDocument, section+1, err)
		}
		if img, ok := b.(*model.ImageBlock); ok {
			img.Data = image
		}
		sections[section].Blocks = append(sections[section].Blocks, b)
	}
	return rows.Err()
}

// CaseIDs lists the stored case IDs, sorted.
func (p *SQLiteProvider) CaseIDs(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT case_id FROM reports ORDER BY case_id`)
	if err != nil {
		return nil, fmt.Errorf("query case ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan case id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
