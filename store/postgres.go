package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/LovationAdmin/finance-api/models"
	"github.com/LovationAdmin/finance-api/utils"

	"github.com/lib/pq"
)

// Postgres stores documents in the documents table. When a cipher is set,
// every body is sealed and wrapped as {"encrypted": "..."}.
type Postgres struct {
	db     *sql.DB
	cipher *utils.Cipher
}

func NewPostgres(db *sql.DB, cipher *utils.Cipher) *Postgres {
	return &Postgres{db: db, cipher: cipher}
}

// Helper struct for DB storage of encrypted blobs
type encryptedData struct {
	Encrypted string `json:"encrypted"`
}

func (p *Postgres) seal(data json.RawMessage) (json.RawMessage, error) {
	if p.cipher == nil {
		return data, nil
	}
	sealed, err := p.cipher.Encrypt(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(encryptedData{Encrypted: sealed})
}

func (p *Postgres) open(raw []byte) (json.RawMessage, error) {
	var wrapper encryptedData
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Encrypted != "" {
		if p.cipher == nil {
			return nil, errors.New("document is encrypted but no DATA_ENCRYPTION_KEY is configured")
		}
		plain, err := p.cipher.Decrypt(wrapper.Encrypted)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt document: %w", err)
		}
		return plain, nil
	}
	// Legacy or unencrypted rows are returned as is
	return raw, nil
}

func (p *Postgres) List(ctx context.Context, userID, collection string) ([]json.RawMessage, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT data
		FROM documents
		WHERE user_id = $1 AND collection = $2
		ORDER BY created_at, id
	`, userID, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		doc, err := p.open(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (p *Postgres) Get(ctx context.Context, userID, collection, id string) (json.RawMessage, error) {
	var raw []byte
	err := p.db.QueryRowContext(ctx, `
		SELECT data FROM documents
		WHERE user_id = $1 AND collection = $2 AND id = $3
	`, userID, collection, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p.open(raw)
}

func (p *Postgres) Put(ctx context.Context, userID string, doc Document) error {
	return p.PutMany(ctx, userID, []Document{doc})
}

const upsertDocument = `
	INSERT INTO documents (user_id, collection, id, data, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, 1, NOW(), NOW())
	ON CONFLICT (user_id, collection, id)
	DO UPDATE SET
		data = EXCLUDED.data,
		version = documents.version + 1,
		updated_at = NOW()
`

func (p *Postgres) PutMany(ctx context.Context, userID string, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	sealed := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		s, err := p.seal(d.Data)
		if err != nil {
			return err
		}
		sealed[i] = s
	}

	return utils.WithTransaction(p.db, func(tx *sql.Tx) error {
		ids := make([]string, 0, len(docs))
		for i, d := range docs {
			if _, err := tx.ExecContext(ctx, upsertDocument, userID, d.Collection, d.ID, []byte(sealed[i])); err != nil {
				return fmt.Errorf("write %s/%s: %w", d.Collection, d.ID, err)
			}
			ids = append(ids, d.ID)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO audit_logs (user_id, action, collection, document_ids)
			VALUES ($1, 'put', $2, $3)
		`, userID, docs[0].Collection, pq.Array(ids))
		return err
	})
}

func (p *Postgres) Delete(ctx context.Context, userID, collection, id string) error {
	res, err := p.db.ExecContext(ctx, `
		DELETE FROM documents WHERE user_id = $1 AND collection = $2 AND id = $3
	`, userID, collection, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) UserIDs(ctx context.Context, collection string) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM documents WHERE collection = $1 ORDER BY user_id
	`, collection)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ============================================================================
// USERS
// ============================================================================

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO users (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, user.ID, strings.ToLower(user.Email), user.PasswordHash, user.Name).Scan(&user.CreatedAt, &user.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}

const selectUser = `
	SELECT id, email, password_hash, name, COALESCE(totp_secret, ''), totp_enabled, created_at, updated_at
	FROM users
`

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(p.db.QueryRowContext(ctx, selectUser+` WHERE email = $1`, strings.ToLower(email)))
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(p.db.QueryRowContext(ctx, selectUser+` WHERE id = $1`, id))
}

func (p *Postgres) UpdateTOTP(ctx context.Context, userID, secret string, enabled bool) error {
	res, err := p.db.ExecContext(ctx, `
		UPDATE users SET totp_secret = NULLIF($1, ''), totp_enabled = $2, updated_at = NOW()
		WHERE id = $3
	`, secret, enabled, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
