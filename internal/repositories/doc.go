// Package repositories implements the preference store used by the controllers.
//
// Two backends satisfy [Store]:
//   - [PreferenceRepository] : SQLite table "preferences" created by the embedded migrations, upserting on key
//   - [RedisPreferenceStore] : plain Redis strings under a configurable key prefix (default "reel:")
//
// [Open] picks the backend from the [preferences] section of the config.
// Both stores report a missing key as ("", false, nil) rather than an error.
package repositories
