package query

type testEnum string

const testEnumOne testEnum = "ONE"

func defaultDescriptor() *Descriptor {
	return NewDescriptor("testEntity")
}

func extendedDescriptor() *Descriptor {
	d := NewDescriptor("testEntity")
	MapAPIFieldToPath(d, "apiField", Int64Value, d.Path("entityField", "entity_field"))
	ByAPIField(d, "anotherApiField", StringValue).
		OnOperator(Goe, func(v string) Predicate {
			return d.Path("anotherEntityField", "another_entity_field").Eq(v)
		})
	ByAPIField(d, "enumApiFiled", EnumValue(testEnumOne)).
		OnOperator(Eq, func(v testEnum) Predicate {
			return d.Path("enumEntityField", "enum_entity_field").Eq(v)
		})
	return d
}

func sortableDescriptor() *Descriptor {
	d := NewDescriptor("testEntity")
	return d.SortableBy("apiField", d.Path("entityField", "entity_field"))
}
