package kvstore

import (
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fystack/lottery-genius/pkg/common/enum"
	"github.com/fystack/lottery-genius/pkg/infra"
)

type BadgerStore struct {
	db     *badger.DB
	prefix string
	codec  infra.Codec
}

// NewBadgerStore opens badger at path, or in memory when path is empty.
func NewBadgerStore(path string, prefix string, codec infra.Codec) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{
		db:     db,
		prefix: prefix,
		codec:  codec,
	}, nil
}

func (b *BadgerStore) GetName() string {
	return string(enum.CacheBackendBadger)
}

func (b *BadgerStore) Get(key string) ([]byte, error) {
	k, err := joinKey(b.prefix, key)
	if err != nil {
		return nil, err
	}

	var valCopy []byte
	err = b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(k))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	return valCopy, err
}

func (b *BadgerStore) Set(key string, value []byte, ttl time.Duration) error {
	k, err := joinKey(b.prefix, key)
	if err != nil {
		return err
	}

	entry := badger.NewEntry([]byte(k), value)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

func (b *BadgerStore) SetAny(key string, value any, ttl time.Duration) error {
	if err := checkKeyAndValue(key, value); err != nil {
		return err
	}
	data, err := b.codec.Marshal(value)
	if err != nil {
		return err
	}
	return b.Set(key, data, ttl)
}

func (b *BadgerStore) GetAny(key string, value any) (bool, error) {
	if err := checkKeyAndValue(key, value); err != nil {
		return false, err
	}
	data, err := b.Get(key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, b.codec.Unmarshal(data, value)
}

func (b *BadgerStore) Delete(key string) error {
	k, err := joinKey(b.prefix, key)
	if err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(k))
	})
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
