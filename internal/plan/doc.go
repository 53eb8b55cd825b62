// Package plan is the type-directed mapping synthesis engine.
//
// For a (source, target) pair the Resolver tries, in this fixed order:
//  1. identity (equal references, nullability included)
//  2. a unary function declared by the enclosing mapper
//  3. a unary function of a helper collaborator, non-null match first
//  4. element-wise collection mapping
//  5. key/value map mapping
//  6. enum correlation by constant name
//  7. nullability lifting
//  8. deferral when a relevant symbol is not introspectable yet, failure otherwise
//
// The first strategy that applies wins. MapByConstruction builds the body of
// a contract: it walks the target's constructor, correlates each parameter
// with a source member by exact name, honors overrides, and resolves each
// member conversion with the Resolver.
//
// Resolution is a pure function of the universe and the contract: the same
// inputs always produce the same Plan.
package plan
