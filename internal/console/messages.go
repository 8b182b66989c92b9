package console

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/roach88/members/internal/store"
)

// Prompts. Input is read on the same line.
const (
	promptAccount   = "請輸入帳號："
	promptPassword  = "請輸入密碼："
	promptChoice    = "請輸入您的選擇 [0-7]: "
	promptName      = "請輸入姓名: "
	promptSex       = "請輸入性別: "
	promptPhone     = "請輸入手機: "
	promptNameToFix = "請輸入想修改記錄的姓名: "
	promptNewSex    = "請輸入要改變的性別: "
	promptNewPhone  = "請輸入要改變的手機: "
	promptSearch    = "請輸入想查詢記錄的手機: "
)

// Messages, each followed by a blank line.
const (
	msgLoginOK       = "=>登入成功\n\n"
	msgLoginFailed   = "=>帳密錯誤，程式結束\n\n"
	msgTableCreated  = "=>資料庫已建立\n\n"
	msgAffected      = "=> 異動 %d 筆記錄\n\n"
	msgInserted      = "=>異動 %d 筆記錄\n\n"
	msgNoData        = "=> 查無資料\n\n"
	msgNoTable       = "=> 資料庫或資料表不存在\n\n"
	msgNameRequired  = "=>必須指定姓名才可修改記錄\n\n"
	msgNameNotFound  = "=>找不到姓名為 %s 的記錄\n\n"
	msgPhoneNotFound = "=>查無符合手機號碼 %s 的記錄\n\n"
	msgInvalidChoice = "=>無效的選擇\n\n"
	msgFileNotFound  = "=>找不到檔案 %s\n\n"
	msgMalformedLine = "=>檔案 %s 第 %d 行格式錯誤\n\n"
	msgStoreError    = "SQLite 錯誤: %v\n\n"
	msgError         = "=>錯誤: %v\n\n"
)

const (
	recordLine    = "姓名：%s，性別：%s，手機：%s\n"
	msgBefore     = "\n原資料：\n" + recordLine
	msgAfter      = "=>異動 1 筆記錄\n修改後資料：\n" + recordLine + "\n"
	menuRule      = "--------------------------"
	menuTitleRule = "---------- 選單 ----------"
)

var menuItems = []string{
	"0 / Enter 離開",
	"1 建立資料庫與資料表",
	"2 匯入資料",
	"3 顯示所有紀錄",
	"4 新增記錄",
	"5 修改記錄",
	"6 查詢指定手機",
	"7 刪除所有記錄",
}

// describe maps an error to the diagnostic shown to the user.
func describe(err error) string {
	var se *store.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case store.KindFileNotFound:
			return fmt.Sprintf(msgFileNotFound, se.Path)
		case store.KindMalformedLine:
			return fmt.Sprintf(msgMalformedLine, se.Path, se.Line)
		case store.KindNoTable:
			return msgNoTable
		case store.KindNotFound:
			return fmt.Sprintf(msgNameNotFound, se.Key)
		default:
			return fmt.Sprintf(msgStoreError, se.Err)
		}
	}

	var pe *fs.PathError
	if errors.As(err, &pe) && errors.Is(err, fs.ErrNotExist) {
		return fmt.Sprintf(msgFileNotFound, pe.Path)
	}

	return fmt.Sprintf(msgError, err)
}
