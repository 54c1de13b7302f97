package models

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
)

// StoreKind names a watched record store.
type StoreKind string

const (
	StoreMembers  StoreKind = "members"
	StoreDeposits StoreKind = "depots"
	StorePayouts  StoreKind = "payouts"
	StoreRetraits StoreKind = "retraits"
)

// IdentityOf returns the stable, deterministic identifier used for change
// diffing: the record's own id, else its code, else a composite of
// semantically distinguishing fields, else a content-derived fingerprint.
// Repeated scans of an unchanged record always yield the same identity.
func IdentityOf(kind StoreKind, record interface{}) string {
	switch r := record.(type) {
	case Member:
		if r.Code != "" {
			return r.Code
		}
		return fingerprint("mem", r)
	case Deposit:
		if r.ID != 0 {
			return strconv.FormatUint(uint64(r.ID), 10)
		}
		if r.MemberCode != "" {
			return r.MemberCode + "::" + r.EffectiveDate().Format("2006-01-02")
		}
		return fingerprint("dep", r)
	case Payout:
		if r.ID != 0 {
			return strconv.FormatUint(uint64(r.ID), 10)
		}
		return fingerprint("pay", r)
	default:
		return fingerprint(string(kind), record)
	}
}

// SeenIDList decodes the cursor's persisted identifier set
func (c *ScanCursor) SeenIDList() []string {
	if c.SeenIDs == "" {
		return nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(c.SeenIDs), &ids); err != nil {
		return nil
	}
	return ids
}

// SetSeenIDs replaces the cursor's persisted identifier set
func (c *ScanCursor) SetSeenIDs(ids []string) {
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	c.SeenIDs = string(raw)
}

// fingerprint derives an identifier from the whole record content.
// Last resort for records carrying neither id nor code.
func fingerprint(prefix string, record interface{}) string {
	raw, err := json.Marshal(record)
	if err != nil {
		raw = []byte(fmt.Sprintf("%+v", record))
	}
	h := fnv.New64a()
	h.Write(raw)
	return fmt.Sprintf("%s-%012x", prefix, h.Sum64())
}
