package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tournaments (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    game         TEXT NOT NULL,
    mode         TEXT NOT NULL,
    max_players  INTEGER NOT NULL,
    entry_fee    INTEGER NOT NULL,
    prize_places INTEGER NOT NULL,
    prizes       TEXT NOT NULL,
    map_photo    TEXT NOT NULL DEFAULT '',
    description  TEXT NOT NULL DEFAULT '',
    link         TEXT NOT NULL DEFAULT '',
    status       TEXT NOT NULL DEFAULT 'active',
    created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS participants (
    tournament_id  INTEGER NOT NULL,
    user_id        INTEGER NOT NULL,
    nickname       TEXT NOT NULL,
    payment_status TEXT NOT NULL DEFAULT 'pending',
    payment_photo  TEXT NOT NULL DEFAULT '',
    joined_at      TEXT NOT NULL,
    PRIMARY KEY (tournament_id, user_id)
);

CREATE TABLE IF NOT EXISTS banned_users (
    user_id   INTEGER PRIMARY KEY,
    banned_at TEXT NOT NULL,
    reason    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
    user_id    INTEGER PRIMARY KEY,
    first_seen TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS creation_keys (
    key           TEXT PRIMARY KEY,
    tournament_id INTEGER NOT NULL,
    created_at    TEXT NOT NULL
);
`
