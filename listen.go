// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/ashiffxd/LLM-Internals/config"
)

var errSocketOwner = errors.New("unknown unix socket owner")

// listen opens the Unix socket when one is configured and the TCP address
// otherwise.
func listen(ctx context.Context) (net.Listener, error) {
	cfg := config.Global.Basic

	var lc net.ListenConfig

	if cfg.UnixSocket != "" {
		l, err := lc.Listen(ctx, "unix", cfg.UnixSocket)
		if err != nil {
			return nil, fmt.Errorf("failed to listen on unix socket %s: %w", cfg.UnixSocket, err)
		}

		if err := prepareSocket(cfg.UnixSocket, cfg.UnixSocketUser, cfg.UnixSocketGroup, cfg.UnixSocketPermissions); err != nil {
			_ = l.Close()

			return nil, err
		}

		log.Info().Str("address", cfg.UnixSocket).Msg("Listening on Unix domain socket")

		return l, nil
	}

	l, err := lc.Listen(ctx, "tcp", net.JoinHostPort(cfg.Host, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", net.JoinHostPort(cfg.Host, cfg.Port), err)
	}

	addr := l.Addr().String()
	port := strconv.Itoa(l.Addr().(*net.TCPAddr).Port)

	log.Info().
		Str("address", addr).
		Str("url", "http://localhost:"+port+"/").
		Msg("Listening on address")

	return l, nil
}

// prepareSocket hands the socket to owner and group, which may be names or
// numeric IDs, then applies perm.
func prepareSocket(path, owner, group string, perm os.FileMode) error {
	uid, err := lookupID(owner, func(name string) (string, error) {
		u, err := user.Lookup(name)
		if err != nil {
			return "", err
		}

		return u.Uid, nil
	})
	if err != nil {
		return err
	}

	gid, err := lookupID(group, func(name string) (string, error) {
		g, err := user.LookupGroup(name)
		if err != nil {
			return "", err
		}

		return g.Gid, nil
	})
	if err != nil {
		return err
	}

	if uid != -1 || gid != -1 {
		if err := os.Chown(path, uid, gid); err != nil {
			return fmt.Errorf("failed to change unix socket ownership: %w", err)
		}
	}

	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("failed to change unix socket permissions: %w", err)
	}

	return nil
}

// lookupID resolves a user or group to its numeric ID. "" means unchanged
// and yields -1, as os.Chown expects.
func lookupID(value string, lookup func(string) (string, error)) (int, error) {
	if value == "" {
		return -1, nil
	}

	if id, err := strconv.Atoi(value); err == nil {
		return id, nil
	}

	raw, err := lookup(value)
	if err != nil {
		return -1, fmt.Errorf("%w %q: %w", errSocketOwner, value, err)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return -1, fmt.Errorf("%w %q: non-numeric ID %q", errSocketOwner, value, raw)
	}

	return id, nil
}
