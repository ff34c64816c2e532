//go:build component
// +build component

package component

func (s *ComponentTestSuite) TestCreateAccount() {
	_, when, then := s.gherkin()

	when().
		aCreateAccountRequestIsIssued()

	then().
		theCreateResponseContainsAValidAccount().
		listAccountsContains("wa@gmail.com").
		anEventForTheAccountCreationWillEventuallyBeProduced()
}

func (s *ComponentTestSuite) TestUpdateAccount() {
	given, when, then := s.gherkin()

	given().
		anExistingAccount()

	when().
		theAccountGetsUpdated()

	then().
		theUpdateResponseReflectsTheUpdate().
		anEventForTheAccountUpdateWillEventuallyBeProduced()
}

func (s *ComponentTestSuite) TestDeleteAccount() {
	given, when, then := s.gherkin()

	given().
		anExistingAccount()

	when().
		anAccountDeletionRequestIsIssued()

	then().
		listAccountsDoesNotContainTheDeletedAccount().
		anEventForTheAccountDeletionWillEventuallyBeProduced()
}

func (s *ComponentTestSuite) TestLoginIsAudited() {
	given, when, then := s.gherkin()

	given().
		anExistingAccount()

	when().
		theAccountLogsIn()

	then().
		theLoginIsAudited().
		theAccountAppearsAmongActiveAccounts().
		todayAppearsAmongLoginDates()
}
