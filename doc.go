// Package recordkit provides role-gated management of business records for
// Go applications: a closed permission catalog, single-role users, an
// authorization engine with a superadmin bypass and ownership-scoped
// abilities, and paginated querying over PostgreSQL.
//
// # Core Concepts
//
//   - Permission: an atomic named capability ("records.update_own") from a
//     code-defined catalog, seeded into the database.
//   - Role: a slug-identified bundle of permissions. Every user holds
//     exactly one role; the "webadmin" slug bypasses all rules.
//   - Decision: the value result of an authorization check. Denials carry a
//     human-readable reason and are never errors.
//   - PageRequest: a normalized list query (page, size, sort, search) that
//     is always valid by construction.
//
// # Key Features
//
//   - Closed permission catalog with grouped definitions and seeding
//   - Grant/revoke/sync role permissions with per-instance caching
//   - Rule-based authorization with webadmin bypass and ownership scoping
//   - Fail-open page request normalization and a generic paginated executor
//   - bcrypt credentials, JWT bearer tokens and net/http middleware
//   - dbkit-backed storage with migrations, health and pool management
//
// # Basic Usage
//
//	db, err := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	service := recordkit.NewService(db)
//	migrations := recordkit.NewMigrationService(service)
//	if _, err := db.Migrate(ctx, migrations.Migrations()); err != nil {
//	    log.Fatal(err)
//	}
//	if err := migrations.SeedCatalog(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	user, err := service.Authenticate(ctx, "admin@example.com", password)
//	if err != nil {
//	    // recordkit.IsInvalidCredentials(err)
//	}
//
//	if d := service.Authorize(user, recordkit.ResourceRecord, recordkit.ActionCreate, nil); !d.Allowed {
//	    // d.Reason explains the denial
//	}
//
//	req := recordkit.PageRequestFromValues(r.URL.Query(), recordkit.RecordPageConfig())
//	page, err := service.ListRecords(ctx, req)
//
// # Middleware Usage
//
//	issuer := recordkit.NewTokenIssuer(secret, 24*time.Hour)
//	mw := recordkit.NewMiddleware(service, issuer)
//
//	router.Use(mw.Authenticate())
//	router.With(mw.RequirePermission(recordkit.PermDropdownOptionsManage)).
//	    Post("/dropdown-options", createOptionHandler)
//
// # Ownership-Scoped Abilities
//
// Record update and delete come in two strengths: the broad permission
// (records.update) covers every record, the own variant (records.update_own)
// only records the user created. Either grant suffices; the engine checks
// the broad permission first and falls back to own+ownership.
package recordkit
