// Package dupes classifies pairs of media records that share an identity
// key and recommends which copy to retain. Classification is deterministic
// and never destructive: the recommendation is advisory and ambiguous pairs
// are surfaced for review by callers.
package dupes
