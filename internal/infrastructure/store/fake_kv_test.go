// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// fakeKeyValue is an in-memory INatsKeyValue with jetstream-compatible error
// behavior, so the repository tests exercise the real conflict and not-found
// translation paths.
type fakeKeyValue struct {
	entries   map[string][]byte
	revisions map[string]uint64
}

func newFakeKeyValue() *fakeKeyValue {
	return &fakeKeyValue{
		entries:   map[string][]byte{},
		revisions: map[string]uint64{},
	}
}

type fakeEntry struct {
	key      string
	value    []byte
	revision uint64
}

func (e *fakeEntry) Bucket() string                  { return "fake" }
func (e *fakeEntry) Key() string                     { return e.key }
func (e *fakeEntry) Value() []byte                   { return e.value }
func (e *fakeEntry) Revision() uint64                { return e.revision }
func (e *fakeEntry) Created() time.Time              { return time.Time{} }
func (e *fakeEntry) Delta() uint64                   { return 0 }
func (e *fakeEntry) Operation() jetstream.KeyValueOp { return jetstream.KeyValuePut }

type fakeKeyLister struct {
	keys chan string
}

func (l *fakeKeyLister) Keys() <-chan string { return l.keys }
func (l *fakeKeyLister) Stop() error         { return nil }

func (f *fakeKeyValue) Get(_ context.Context, key string) (jetstream.KeyValueEntry, error) {
	value, ok := f.entries[key]
	if !ok {
		return nil, jetstream.ErrKeyNotFound
	}
	return &fakeEntry{key: key, value: value, revision: f.revisions[key]}, nil
}

func (f *fakeKeyValue) Put(_ context.Context, key string, value []byte) (uint64, error) {
	f.entries[key] = value
	f.revisions[key]++
	return f.revisions[key], nil
}

func (f *fakeKeyValue) Create(_ context.Context, key string, value []byte, _ ...jetstream.KVCreateOpt) (uint64, error) {
	if _, ok := f.entries[key]; ok {
		return 0, jetstream.ErrKeyExists
	}
	f.entries[key] = value
	f.revisions[key] = 1
	return 1, nil
}

func (f *fakeKeyValue) Update(_ context.Context, key string, value []byte, revision uint64) (uint64, error) {
	if _, ok := f.entries[key]; !ok {
		return 0, jetstream.ErrKeyNotFound
	}
	if f.revisions[key] != revision {
		return 0, errors.New("nats: wrong last sequence")
	}
	f.entries[key] = value
	f.revisions[key]++
	return f.revisions[key], nil
}

func (f *fakeKeyValue) Delete(_ context.Context, key string, _ ...jetstream.KVDeleteOpt) error {
	if _, ok := f.entries[key]; !ok {
		return jetstream.ErrKeyNotFound
	}
	delete(f.entries, key)
	delete(f.revisions, key)
	return nil
}

func (f *fakeKeyValue) ListKeys(_ context.Context, _ ...jetstream.WatchOpt) (jetstream.KeyLister, error) {
	keys := make(chan string, len(f.entries))
	for key := range f.entries {
		keys <- key
	}
	close(keys)
	return &fakeKeyLister{keys: keys}, nil
}
