// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

//go:build !debug

package chainbdd

// _DEBUG and _LOGLEVEL are the release-mode counterparts of debug.go: nothing
// is logged unless the PrintDebug option is set.
const _DEBUG bool = false
const _LOGLEVEL int = 0
