// Package config holds user settings: Fyne preferences for the GUI shell
// and a TOML file for the terminal shells, plus saved-task persistence.
package config
