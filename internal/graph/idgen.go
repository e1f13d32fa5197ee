package graph

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// entityPrefixes maps catalog types to their human-readable id prefixes
var entityPrefixes = map[EntityType]string{
	TypeServer:          "SRV",
	TypeVirtualServer:   "VSRV",
	TypeApplication:     "APP",
	TypeITService:       "SVC",
	TypeBusinessService: "BSVC",
	TypePerson:          "PERSON",
	TypeDepartment:      "DEPT",
	TypeTeam:            "TEAM",
	TypeIncident:        "INC",
	TypeProblem:         "PRB",
	TypeChange:          "CHG",
	TypeNetworkDevice:   "NET",
	TypeDatabase:        "DB",
	TypeStorageDevice:   "STG",
	TypeOperatingSystem: "OS",
	TypeEndpoint:        "EP",
}

// GenerateEntityID produces an id of the form PREFIX + 6 decimal digits.
// The suffix is a random 64-bit value truncated (or zero-padded) to six
// digits; no uniqueness check against existing ids is made here.
func GenerateEntityID(typeTag string) string {
	return EntityPrefix(typeTag) + randomDigits(6)
}

// GenerateRelationshipID produces an id of the form REL- plus 8 lowercase
// hex characters.
func GenerateRelationshipID() string {
	u := uuid.New()
	return fmt.Sprintf("REL-%x", u[:4])
}

// EntityPrefix resolves the id prefix for a type tag. Catalog types use the
// fixed table (matched case-insensitively, so "SERVER" and "Server" agree);
// anything else derives a prefix from the first three uppercase letters of
// the tag, defaulting to ENT.
func EntityPrefix(typeTag string) string {
	if t, ok := lookupEntityType(typeTag); ok {
		if prefix, ok := entityPrefixes[t]; ok {
			return prefix
		}
		typeTag = string(t)
	}

	var letters []rune
	for _, r := range strings.ToUpper(typeTag) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
			if len(letters) == 3 {
				break
			}
		}
	}
	if len(letters) == 0 {
		return "ENT"
	}
	return string(letters)
}

// lookupEntityType matches a tag against the catalog ignoring case
func lookupEntityType(tag string) (EntityType, bool) {
	for _, t := range allEntityTypes {
		if strings.EqualFold(tag, string(t)) {
			return t, true
		}
	}
	return "", false
}

func randomDigits(n int) string {
	s := strconv.FormatUint(rand.Uint64(), 10)
	if len(s) >= n {
		return s[:n]
	}
	return strings.Repeat("0", n-len(s)) + s
}
