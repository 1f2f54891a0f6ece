package storage

const Schema = `
CREATE TABLE IF NOT EXISTS contacts (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE COLLATE NOCASE,
    phone TEXT,
    organization TEXT,
    job_title TEXT,
    bio TEXT,
    location TEXT,
    website_url TEXT,
    influence_score INTEGER,
    contact_status TEXT NOT NULL DEFAULT 'active',
    tags TEXT,
    notes TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    version INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_contacts_full_name ON contacts(full_name);
CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts(contact_status);
CREATE INDEX IF NOT EXISTS idx_contacts_organization ON contacts(organization);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    version INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS contact_group_memberships (
    contact_id TEXT NOT NULL,
    group_id TEXT NOT NULL,
    membership_status TEXT NOT NULL DEFAULT 'active',
    joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    notes TEXT,
    PRIMARY KEY (contact_id, group_id),
    FOREIGN KEY (contact_id) REFERENCES contacts(id),
    FOREIGN KEY (group_id) REFERENCES groups(id)
);

CREATE INDEX IF NOT EXISTS idx_memberships_group ON contact_group_memberships(group_id);

CREATE TABLE IF NOT EXISTS social_profiles (
    id TEXT PRIMARY KEY,
    contact_id TEXT NOT NULL,
    platform TEXT NOT NULL,
    handle TEXT,
    url TEXT NOT NULL,
    notes TEXT,
    added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    version INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (contact_id) REFERENCES contacts(id),
    UNIQUE(contact_id, url)
);

CREATE INDEX IF NOT EXISTS idx_social_profiles_contact ON social_profiles(contact_id);

CREATE TABLE IF NOT EXISTS shared_content_log (
    id TEXT PRIMARY KEY,
    contact_id TEXT NOT NULL,
    content_url TEXT NOT NULL,
    platform TEXT,
    title TEXT,
    notes TEXT,
    shared_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (contact_id) REFERENCES contacts(id)
);

CREATE INDEX IF NOT EXISTS idx_shared_content_contact ON shared_content_log(contact_id);
CREATE INDEX IF NOT EXISTS idx_shared_content_shared_at ON shared_content_log(shared_at DESC);
`
