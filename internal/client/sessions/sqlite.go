package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/staykeeper/internal/client/models"
	"github.com/dmitrijs2005/staykeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/staykeeper/internal/common"
	"github.com/dmitrijs2005/staykeeper/internal/cryptox"
	"github.com/dmitrijs2005/staykeeper/internal/dbx"
)

const (
	keySession       = "auth.session"
	keySealedSession = "auth.session.sealed"
	keySalt          = "auth.session.salt"
)

// SQLite stores the session in the local metadata table. With a non-empty
// passphrase the session is sealed with a key derived from it.
type SQLite struct {
	db         *sql.DB
	passphrase []byte

	mu  sync.Mutex
	key []byte
}

var _ Storage = (*SQLite)(nil)

func NewSQLite(db *sql.DB, passphrase string) *SQLite {
	s := &SQLite{db: db}
	if passphrase != "" {
		s.passphrase = []byte(passphrase)
	}
	return s
}

func (s *SQLite) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

func (s *SQLite) sealed() bool {
	return len(s.passphrase) > 0
}

var errMissingSalt = errors.New("session salt missing")

func (s *SQLite) cachedKey() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// rememberKey caches a key whose salt is known to be committed.
func (s *SQLite) rememberKey(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		s.key = key
	}
}

// encryptionKey derives the session key from the stored salt. With create
// set a missing salt is generated and written through repo; the caller
// caches the key only once that write is committed.
func (s *SQLite) encryptionKey(ctx context.Context, repo metadata.Repository, create bool) ([]byte, error) {
	if key := s.cachedKey(); key != nil {
		return key, nil
	}

	salt, err := repo.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		if !create {
			return nil, errMissingSalt
		}
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if err := repo.Set(ctx, keySalt, salt); err != nil {
			return nil, err
		}
	}
	return cryptox.DeriveKey(s.passphrase, salt), nil
}

func (s *SQLite) Load(ctx context.Context) (*models.Session, error) {
	repo := s.repo(s.db)

	if !s.sealed() {
		raw, err := repo.Get(ctx, keySession)
		if err != nil || raw == nil {
			return nil, err
		}
		var session models.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		return &session, nil
	}

	raw, err := repo.Get(ctx, keySealedSession)
	if err != nil || raw == nil {
		return nil, err
	}
	key, err := s.encryptionKey(ctx, repo, false)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	var session models.Session
	if err := cryptox.Open(raw, key, &session); err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	s.rememberKey(key)
	return &session, nil
}

func (s *SQLite) Save(ctx context.Context, session *models.Session) error {
	var key []byte
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)

		if !s.sealed() {
			raw, err := json.Marshal(session)
			if err != nil {
				return fmt.Errorf("encode session: %w", err)
			}
			if err := repo.Delete(ctx, keySealedSession); err != nil {
				return err
			}
			return repo.Set(ctx, keySession, raw)
		}

		var err error
		key, err = s.encryptionKey(ctx, repo, true)
		if err != nil {
			return err
		}
		raw, err := cryptox.Seal(session, key)
		if err != nil {
			return fmt.Errorf("seal session: %w", err)
		}
		if err := repo.Delete(ctx, keySession); err != nil {
			return err
		}
		return repo.Set(ctx, keySealedSession, raw)
	})
	if err != nil {
		return err
	}
	if key != nil {
		s.rememberKey(key)
	}
	return nil
}

// Clear forgets the session. The salt is kept so the derived key stays valid.
func (s *SQLite) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keySession, keySealedSession)
}
