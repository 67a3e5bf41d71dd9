// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of
// ORM tags. Each model has a ToDomain method and a ...ModelFromDomain constructor.
//
// Structure:
//   - base.go: BaseModel, AggregateModel, ChurchAggregateModel
//   - church.go: churches and members
//   - identity.go: users
//   - accounting.go: chart of accounts and journal entries
//   - school.go: classrooms, magazines, people, lesson plans, attendance
//   - finance.go: bank accounts, financial entries, bills to pay
//   - store.go: products, carts, orders, salespeople, reactivation leads
package models
