package trial

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/hierarchy"
	"github.com/cleared-dev/tally/internal/model"
	"github.com/cleared-dev/tally/internal/money"
)

func m(s string) money.Money {
	return money.MustParse(s)
}

func subj(id, code string, dir model.Direction) model.Subject {
	return model.Subject{ID: id, Code: code, Name: code, Direction: dir, Active: true}
}

func build(t *testing.T, subjects ...model.Subject) *hierarchy.Tree {
	t.Helper()
	tree, err := hierarchy.Build(subjects)
	require.NoError(t, err)
	return tree
}

func TestValidate_ScenarioBalanced(t *testing.T) {
	tree := build(t, subj("cash", "1001", model.Debit), subj("loan", "2001", model.Credit))

	res, err := Validate(tree, map[string]money.Money{
		"cash": m("500.00"),
		"loan": m("500.00"),
	}, money.Zero())
	require.NoError(t, err)

	assert.True(t, res.IsBalanced)
	assert.Equal(t, "0.00", res.Diff.String())
	assert.Equal(t, "500.00", res.DebitTotal.String())
	assert.Equal(t, "500.00", res.CreditTotal.String())
	assert.NoError(t, res.Err())
}

func TestValidate_Unbalanced(t *testing.T) {
	tree := build(t, subj("cash", "1001", model.Debit), subj("loan", "2001", model.Credit))
	balances := map[string]money.Money{"cash": m("500.01"), "loan": m("500.00")}

	res, err := Validate(tree, balances, money.Zero())
	require.NoError(t, err, "an unbalanced trial is a result, not a failure")
	assert.False(t, res.IsBalanced)
	assert.Equal(t, "0.01", res.Diff.String())
	assert.ErrorIs(t, res.Err(), model.ErrUnbalancedInput)

	tolerant, err := Validate(tree, balances, money.Cents(1))
	require.NoError(t, err)
	assert.True(t, tolerant.IsBalanced)
	assert.Equal(t, "0.01", tolerant.Diff.String())
}

func TestValidate_RollsUpChildren(t *testing.T) {
	tree := build(t,
		subj("s1", "1002", model.Debit),
		subj("s2", "100201", model.Debit),
		subj("s3", "100202", model.Debit),
		subj("s4", "10020201", model.Debit),
		subj("s5", "10020202", model.Debit),
		subj("s6", "4001", model.Credit),
	)
	res, err := Validate(tree, map[string]money.Money{
		"s2": m("100.00"),
		"s4": m("30.00"),
		"s5": m("20.00"),
		"s6": m("150.00"),
	}, money.Zero())
	require.NoError(t, err)

	assert.Equal(t, "50.00", res.RolledUp["s3"].String())
	assert.Equal(t, "150.00", res.RolledUp["s1"].String())
	assert.True(t, res.IsBalanced)
}

func TestValidate_RollUpConsistency(t *testing.T) {
	subjects := []model.Subject{
		subj("a", "1", model.Debit),
		subj("b", "11", model.Debit),
		subj("c", "111", model.Debit),
		subj("d", "112", model.Debit),
		subj("e", "1121", model.Debit),
		subj("f", "1122", model.Debit),
		subj("g", "12", model.Debit),
		subj("h", "2", model.Credit),
		subj("i", "21", model.Credit),
		subj("j", "22", model.Credit),
	}
	tree := build(t, subjects...)
	rnd := rand.New(rand.NewSource(3))

	leaves := map[string]money.Money{}
	for _, i := range tree.Leaves() {
		leaves[Key(tree.Nodes[i].Subject)] = money.Cents(rnd.Int63n(2_000_000) - 1_000_000)
	}
	res, err := Validate(tree, leaves, money.Zero())
	require.NoError(t, err)

	for _, n := range tree.Nodes {
		if n.IsLeaf {
			continue
		}
		sum := money.Zero()
		for _, c := range n.Children {
			sum = sum.Add(res.RolledUp[Key(tree.Nodes[c].Subject)])
		}
		assert.True(t, sum.Equal(res.RolledUp[Key(n.Subject)]), n.Subject.Code)
	}
}

func TestValidate_Errors(t *testing.T) {
	tree := build(t, subj("s1", "1002", model.Debit), subj("s2", "100201", model.Debit))

	_, err := Validate(tree, map[string]money.Money{"nope": m("1.00")}, money.Zero())
	assert.ErrorIs(t, err, model.ErrUnknownSubjectReference)

	_, err = Validate(tree, map[string]money.Money{"s1": m("1.00")}, money.Zero())
	assert.ErrorIs(t, err, model.ErrInvalidSubjectConfiguration)

	_, err = Validate(tree, nil, m("-0.01"))
	assert.ErrorIs(t, err, money.ErrInvalidAmount)
}

func TestValidate_KeysByCodeWithoutID(t *testing.T) {
	tree := build(t,
		model.Subject{Code: "1001", Direction: model.Debit, Active: true},
		model.Subject{Code: "2001", Direction: model.Credit, Active: true},
	)
	res, err := Validate(tree, map[string]money.Money{"1001": m("8.00"), "2001": m("8.00")}, money.Zero())
	require.NoError(t, err)
	assert.True(t, res.IsBalanced)
}

func TestValidate_SubjectWithIDIsNotKeyedByCode(t *testing.T) {
	tree := build(t,
		subj("s1", "1001", model.Debit),
		subj("s2", "2001", model.Credit),
	)
	_, err := Validate(tree, map[string]money.Money{"1001": m("8.00")}, money.Zero())
	assert.ErrorIs(t, err, model.ErrUnknownSubjectReference)

	res, err := Validate(tree, map[string]money.Money{"s1": m("8.00"), "s2": m("8.00")}, money.Zero())
	require.NoError(t, err)
	assert.Equal(t, "8.00", res.DebitTotal.String())
	assert.Equal(t, "8.00", res.CreditTotal.String())
}

func TestRollUp_Generic(t *testing.T) {
	tree := build(t,
		subj("s1", "1002", model.Debit),
		subj("s2", "100201", model.Debit),
		subj("s3", "100202", model.Debit),
	)
	counts := make([]int, tree.Len())
	for _, i := range tree.Leaves() {
		counts[i] = 1
	}
	out := RollUp(tree, counts, func(a, b int) int { return a + b })

	i, _ := tree.Lookup("1002")
	assert.Equal(t, 2, out[i])
	assert.Equal(t, 0, counts[i], "input is not modified")
}
