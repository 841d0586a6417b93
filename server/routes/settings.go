// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"

	"github.com/ashiffxd/LLM-Internals/core/cookie"
	"github.com/ashiffxd/LLM-Internals/core/theme"
	"github.com/ashiffxd/LLM-Internals/core/untrusted"
	"github.com/ashiffxd/LLM-Internals/server/utils"
)

var (
	errNoSuchSetting   = errors.New("no such setting is available")
	errInvalidTheme    = errors.New("invalid theme")
	errInvalidModule   = errors.New("invalid module number")
	errInvalidLanguage = errors.New("invalid language")
)

// collapsedAll is stored when every sidebar section is closed, since an
// empty cookie value deletes the cookie and brings back the default.
const collapsedAll = "none"

// setTheme stores "light" or "dark", or flips the current theme on "toggle".
func setTheme(w http.ResponseWriter, r *http.Request) (string, error) {
	value := r.FormValue("theme")

	var next theme.Theme

	switch value {
	case "toggle":
		next = untrusted.GetTheme(r).Toggle()
	case string(theme.Light), string(theme.Dark):
		next = theme.Theme(value)
	default:
		return "", fmt.Errorf("%w: %q", errInvalidTheme, value)
	}

	untrusted.SetCookie(w, r, cookie.ThemeCookie, next.String())

	return "Theme set to " + next.String() + ".", nil
}

// toggleSidebarModule opens or closes one module section of the sidebar.
func toggleSidebarModule(w http.ResponseWriter, r *http.Request) (string, error) {
	module, err := strconv.Atoi(r.FormValue("module"))
	if err != nil || module < 0 {
		return "", fmt.Errorf("%w: %q", errInvalidModule, r.FormValue("module"))
	}

	expanded := untrusted.ToggleExpandedModule(untrusted.GetExpandedModules(r), module)

	value := untrusted.FormatExpandedModules(expanded)
	if value == "" {
		value = collapsedAll
	}

	untrusted.SetCookie(w, r, cookie.SidebarExpandedCookie, value)

	return "Sidebar updated.", nil
}

// setLanguage stores the preferred UI language. An empty value clears it.
func setLanguage(w http.ResponseWriter, r *http.Request) (string, error) {
	value := r.FormValue("lang")
	if value == "" {
		untrusted.ClearCookie(w, r, cookie.LangCookie)

		return "Language preference cleared.", nil
	}

	tag, err := language.Parse(value)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidLanguage, err)
	}

	untrusted.SetCookie(w, r, cookie.LangCookie, tag.String())

	return "Language set to " + tag.String() + ".", nil
}

//nolint:unparam
func resetAll(w http.ResponseWriter, r *http.Request) (string, error) {
	untrusted.ClearAllCookies(w, r)

	return "All preferences have been reset to default values.", nil
}

var actions = map[string]func(http.ResponseWriter, *http.Request) (string, error){
	"theme":     setTheme,
	"sidebar":   toggleSidebarModule,
	"language":  setLanguage,
	"reset_all": resetAll,
}

// SettingsPOST applies a preference change and sends the client back to returnPath.
//
// Requests made by the page script (Fast-Request: true) get a 204 instead of a redirect.
func SettingsPOST(w http.ResponseWriter, r *http.Request) error {
	name := r.PathValue("action")

	action, ok := actions[name]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)

		return fmt.Errorf("%w: %q", errNoSuchSetting, name)
	}

	message, err := action(w, r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)

		return err
	}

	log.Debug().
		Str("action", name).
		Msg(message)

	w.Header().Set("Cache-Control", "no-store")

	if r.Header.Get("Fast-Request") == "true" {
		w.WriteHeader(http.StatusNoContent)

		return nil
	}

	returnPath := utils.SanitizeReturnPath(r.FormValue("returnPath"))
	if returnPath == "" {
		returnPath = "/"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)

	return nil
}
