package model

// Package model defines domain data structures used across the app: download
// tasks, playlist listings and progress snapshots, and status enums.
// Structures are designed for direct binding in the shells and explicit
// state transitions.
