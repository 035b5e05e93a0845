package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/arloliu/rolepref/types"
)

// Encode serializes a record as "<averageRank>,<averageCount>:<code1>,...,<codeN>".
func Encode(r *Record) []byte {
	var sb strings.Builder
	sb.WriteString(strconv.FormatFloat(r.averageRank, 'f', -1, 64))
	sb.WriteByte(',')
	sb.WriteString(strconv.Itoa(r.averageCount))
	sb.WriteByte(':')
	for i, role := range r.prefs {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(r.catalog.Code(role)))
	}

	return []byte(sb.String())
}

// Decode parses a persisted record, repairing damaged input.
//
// Repair policy:
//   - missing, unknown or duplicate role codes are replaced by the unused roles in
//     canonical catalog order
//   - codes beyond N are dropped
//   - an unparsable or out-of-range average resets to the midpoint (N-1)/2
//   - an unparsable or negative count resets to 1
//
// Parameters:
//   - catalog: Role catalog defining the ranked set
//   - data: Encoded record
//
// Returns:
//   - *Record: Always a valid record
//   - *types.CorruptRecordError: Non-nil when any repair was applied; the caller should
//     re-persist the record with Encode
func Decode(catalog *types.RoleCatalog, data []byte) (*Record, *types.CorruptRecordError) {
	n := catalog.Len()
	repair := &types.CorruptRecordError{}
	text := strings.TrimSpace(string(data))

	head, tail, found := strings.Cut(text, ":")
	if !found {
		repair.Add("missing ':' separator")
		head, tail = "", ""
	}

	avg, count := decodeAverages(catalog, head, found, repair)

	var fields []string
	if tail != "" {
		fields = strings.Split(tail, ",")
	}
	if len(fields) > n {
		repair.Add("%d roles listed, keeping the first %d", len(fields), n)
		fields = fields[:n]
	} else if found && len(fields) < n {
		repair.Add("%d of %d roles listed", len(fields), n)
	}

	prefs := make([]types.Role, n)
	used := make([]bool, n)
	invalid := 0
	for i := range prefs {
		prefs[i] = types.RoleNone
		if i >= len(fields) {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			invalid++
			continue
		}
		role, ok := catalog.FromCode(code)
		if !ok || used[role] {
			invalid++
			continue
		}
		prefs[i] = role
		used[role] = true
	}
	if invalid > 0 {
		repair.Add("%d invalid or duplicate role codes", invalid)
	}
	fillMissing(prefs, used)

	r := &Record{
		catalog:      catalog,
		averageRank:  avg,
		averageCount: count,
	}
	r.apply(prefs)

	if len(repair.Repairs) == 0 {
		return r, nil
	}

	return r, repair
}

func decodeAverages(catalog *types.RoleCatalog, head string, found bool, repair *types.CorruptRecordError) (float64, int) {
	mid := Midpoint(catalog)
	if !found {
		return mid, 1
	}

	avgText, countText, ok := strings.Cut(head, ",")
	if !ok {
		repair.Add("missing average count")
		countText = ""
	}

	avg, err := strconv.ParseFloat(strings.TrimSpace(avgText), 64)
	if err != nil || math.IsNaN(avg) || avg < 0 || avg > float64(catalog.Len()-1) {
		repair.Add("average rank %q reset to %s", avgText, strconv.FormatFloat(mid, 'f', -1, 64))
		avg = mid
	}

	count, err := strconv.Atoi(strings.TrimSpace(countText))
	if err != nil || count < 0 {
		if ok {
			repair.Add("average count %q reset to 1", countText)
		}
		count = 1
	}

	return avg, count
}

// fillMissing replaces RoleNone slots with the unused roles in canonical order.
func fillMissing(prefs []types.Role, used []bool) {
	next := 0
	for i, role := range prefs {
		if role != types.RoleNone {
			continue
		}
		for used[next] {
			next++
		}
		prefs[i] = types.Role(next)
		used[next] = true
	}
}

// ParseHash decodes a preference hash produced by Record.Hash.
//
// Returns:
//   - []types.Role: Full permutation, most preferred first
//   - error: ErrInvalidHash when the length, a digit or a duplicate is invalid
func ParseHash(catalog *types.RoleCatalog, hash string) ([]types.Role, error) {
	hash = strings.ToLower(strings.TrimSpace(hash))
	if len(hash) != catalog.Len() {
		return nil, fmt.Errorf("%w: length %d, want %d", types.ErrInvalidHash, len(hash), catalog.Len())
	}

	prefs := make([]types.Role, len(hash))
	seen := make(map[types.Role]struct{}, len(hash))
	for i := range len(hash) {
		code, err := strconv.ParseInt(hash[i:i+1], 36, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad digit %q", types.ErrInvalidHash, hash[i])
		}
		role, ok := catalog.FromCode(int(code))
		if !ok {
			return nil, fmt.Errorf("%w: unknown role code %d", types.ErrInvalidHash, code)
		}
		if _, dup := seen[role]; dup {
			return nil, fmt.Errorf("%w: role %s listed twice", types.ErrInvalidHash, catalog.Name(role))
		}
		seen[role] = struct{}{}
		prefs[i] = role
	}

	return prefs, nil
}
